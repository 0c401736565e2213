package claims

import (
	"context"

	"github.com/google/uuid"

	"github.com/reclaimhq/reclaim/pkg/pagination"
)

// System defines the public contract for claim domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Claim], error)

	Find(ctx context.Context, id uuid.UUID) (*Claim, error)
	Create(ctx context.Context, cmd CreateCommand) (*Claim, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target Status) (*Claim, error)
}
