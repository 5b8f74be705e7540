package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rmax-ai/budgetlord/pkg/engine"
)

// RollupReport renders a per-category spending breakdown for one subtree:
// one row per reachable category, then a total row.
type RollupReport struct {
	categories *engine.CategoryService
	store      SumStore
}

func NewRollupReport(categories *engine.CategoryService, st SumStore) *RollupReport {
	return &RollupReport{categories: categories, store: st}
}

func (r *RollupReport) Generate(ctx context.Context, params ReportParams) (io.Reader, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write([]string{"category_id", "amount_cents"}); err != nil {
		return nil, err
	}

	ids := r.categories.Subtree(params.RootID, params.Mode)
	var total int64
	for _, id := range ids {
		subtotal, err := r.store.SumByCategories(ctx, []int64{id})
		if err != nil {
			return nil, fmt.Errorf("failed to sum category %d: %w", id, err)
		}
		total += subtotal
		if err := writer.Write([]string{fmt.Sprintf("%d", id), fmt.Sprintf("%d", subtotal)}); err != nil {
			return nil, err
		}
	}
	if err := writer.Write([]string{"total", fmt.Sprintf("%d", total)}); err != nil {
		return nil, err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}

// CyclesReport renders the circular goal-dependency groups, one row per goal
// with its group index.
type CyclesReport struct {
	goals *engine.GoalService
}

func NewCyclesReport(goals *engine.GoalService) *CyclesReport {
	return &CyclesReport{goals: goals}
}

func (r *CyclesReport) Generate(ctx context.Context, params ReportParams) (io.Reader, error) {
	report, err := r.goals.Cycles(ctx)
	if err != nil {
		return nil, fmt.Errorf("cycle analysis failed: %w", err)
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write([]string{"group", "goal_id"}); err != nil {
		return nil, err
	}
	for i, group := range report.Groups {
		for _, goalID := range group {
			if err := writer.Write([]string{fmt.Sprintf("%d", i), fmt.Sprintf("%d", goalID)}); err != nil {
				return nil, err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}
