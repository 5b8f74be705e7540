package reports

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rmax-ai/budgetlord/pkg/engine"
	"github.com/rmax-ai/budgetlord/pkg/store"
)

type fakeSumStore struct {
	sums map[int64]int64
}

func (f *fakeSumStore) SumByCategories(ctx context.Context, ids []int64) (int64, error) {
	var total int64
	for _, id := range ids {
		total += f.sums[id]
	}
	return total, nil
}

func (f *fakeSumStore) ListCategoryLinks(ctx context.Context) ([]store.CategoryLink, error) {
	return []store.CategoryLink{{ParentID: 1, ChildID: 2}}, nil
}

func (f *fakeSumStore) SetSystemState(ctx context.Context, key, value string) error {
	return nil
}

type fakeGoalStore struct {
	deps map[int64][]int64
}

func (f *fakeGoalStore) ListGoalDependencies(ctx context.Context) (map[int64][]int64, error) {
	return f.deps, nil
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	return string(data)
}

func TestRollupReport_CSV(t *testing.T) {
	st := &fakeSumStore{sums: map[int64]int64{1: 500, 2: 1500}}
	categories := engine.NewCategoryService(st)
	if err := categories.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	gen, err := NewReportGenerator(ReportTypeRollup, categories, nil, st)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	out, err := gen.Generate(context.Background(), ReportParams{RootID: 1, Mode: engine.TraversalBFS})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	got := readAll(t, out)
	want := "category_id,amount_cents\n1,500\n2,1500\ntotal,2000\n"
	if got != want {
		t.Errorf("rollup CSV = %q, want %q", got, want)
	}
}

func TestCyclesReport_CSV(t *testing.T) {
	goals := engine.NewGoalService(&fakeGoalStore{deps: map[int64][]int64{
		1: {2},
		2: {1},
		3: {},
	}})

	gen, err := NewReportGenerator(ReportTypeCycles, nil, goals, nil)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	out, err := gen.Generate(context.Background(), ReportParams{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	got := readAll(t, out)
	if !strings.HasPrefix(got, "group,goal_id\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "0,1\n") || !strings.Contains(got, "0,2\n") {
		t.Errorf("cycle members missing from report: %q", got)
	}
	if strings.Contains(got, ",3\n") {
		t.Errorf("acyclic goal 3 should not appear: %q", got)
	}
}

func TestNewReportGenerator_Unknown(t *testing.T) {
	if _, err := NewReportGenerator("bogus", nil, nil, nil); err == nil {
		t.Error("expected error for unknown report type")
	}
}
