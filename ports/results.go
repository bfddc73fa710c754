package ports

import (
	"context"

	"goenrich/domain/core"
	"goenrich/domain/enrichment"
)

// RunFilters narrows run listings.
type RunFilters struct {
	Limit  int
	Offset int
}

// ResultRepository persists analysis runs and their result tables.
type ResultRepository interface {
	SaveRun(ctx context.Context, run *enrichment.Run) error
	GetRun(ctx context.Context, id core.RunID) (*enrichment.Run, error)
	ListRuns(ctx context.Context, filters RunFilters) ([]enrichment.Run, error)
}
