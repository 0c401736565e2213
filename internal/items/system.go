package items

import (
	"context"

	"github.com/reclaimhq/reclaim/pkg/pagination"
)

// System defines the public contract for found-item domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[FoundItem], error)

	Find(ctx context.Context, filename string) (*FoundItem, error)
	Create(ctx context.Context, cmd CreateCommand) (*FoundItem, error)
	Ingest(ctx context.Context, area string) ([]BatchResult, error)
}
