package reports

import (
	"context"
	"io"

	"github.com/rmax-ai/budgetlord/pkg/engine"
)

type ReportType string

const (
	ReportTypeRollup ReportType = "rollup"
	ReportTypeCycles ReportType = "cycles"
)

// ReportParams carries the per-request knobs. RootID and Mode only apply to
// rollup reports.
type ReportParams struct {
	RootID int64
	Mode   engine.TraversalMode
}

// SumStore is the slice of the store the rollup report needs.
type SumStore interface {
	SumByCategories(ctx context.Context, categoryIDs []int64) (int64, error)
}

type Generator interface {
	Generate(ctx context.Context, params ReportParams) (io.Reader, error)
}
