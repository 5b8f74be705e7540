package reports

import (
	"fmt"

	"github.com/rmax-ai/budgetlord/pkg/engine"
)

// NewReportGenerator creates a report generator based on the report type.
func NewReportGenerator(reportType ReportType, categories *engine.CategoryService, goals *engine.GoalService, st SumStore) (Generator, error) {
	switch reportType {
	case ReportTypeRollup:
		return NewRollupReport(categories, st), nil
	case ReportTypeCycles:
		return NewCyclesReport(goals), nil
	default:
		return nil, fmt.Errorf("unknown report type: %s", reportType)
	}
}
