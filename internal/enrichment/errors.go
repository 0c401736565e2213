package enrichment

import "errors"

// Stage names recorded in the failure ledger.
const (
	StageResolve  = "resolve"
	StageClassify = "classify"
	StageDescribe = "describe"
	StagePersist  = "persist"
)

// Enrichment stage errors. Resolution, classification, and description
// failures feed the failure ledger and quarantine policy. Malformed details
// are contained (stored raw), never treated as a failure.
var (
	ErrResolution       = errors.New("image resolution failed")
	ErrClassification   = errors.New("classification failed")
	ErrDescription      = errors.New("description failed")
	ErrMalformedDetails = errors.New("describer output did not parse")
	ErrAlreadyEnriched  = errors.New("item already enriched")
)

// stageOf maps a node error to the ledger stage name.
func stageOf(err error) string {
	switch {
	case errors.Is(err, ErrResolution):
		return StageResolve
	case errors.Is(err, ErrClassification):
		return StageClassify
	case errors.Is(err, ErrDescription):
		return StageDescribe
	default:
		return StagePersist
	}
}
