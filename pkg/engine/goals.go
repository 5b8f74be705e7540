package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rmax-ai/budgetlord/pkg/graph"
)

// GoalStore defines the store access the goal service needs.
type GoalStore interface {
	ListGoalDependencies(ctx context.Context) (map[int64][]int64, error)
}

// CycleReport lists groups of goals whose dependencies are circular. Each
// group is one strongly connected component of the dependency graph with
// more than one member, or a goal that depends on itself.
type CycleReport struct {
	Groups     [][]int64 `json:"groups"`
	GoalCount  int       `json:"goal_count"`
	ComputedAt time.Time `json:"computed_at"`
}

// GoalService analyzes goal dependency edges for circular groups.
type GoalService struct {
	store GoalStore
}

func NewGoalService(st GoalStore) *GoalService {
	return &GoalService{store: st}
}

// Cycles loads the dependency edges and returns every circular group,
// members sorted ascending, groups ordered by smallest member.
func (s *GoalService) Cycles(ctx context.Context) (*CycleReport, error) {
	deps, err := s.store.ListGoalDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal dependencies: %w", err)
	}

	adj := make(map[graph.NodeID][]graph.NodeID, len(deps))
	for from, tos := range deps {
		edges := make([]graph.NodeID, len(tos))
		for i, to := range tos {
			edges[i] = graph.NodeID(to)
		}
		adj[graph.NodeID(from)] = edges
	}

	comps := graph.StronglyConnected(adj)

	var groups [][]int64
	goals := 0
	for _, comp := range comps {
		goals += len(comp)
		if !isCycle(comp, adj) {
			continue
		}
		group := make([]int64, len(comp))
		for i, n := range comp {
			group[i] = int64(n)
		}
		slices.Sort(group)
		groups = append(groups, group)
	}
	slices.SortFunc(groups, func(a, b []int64) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		}
		return 0
	})

	BudgetlordCycleGroups.Set(float64(len(groups)))

	return &CycleReport{
		Groups:     groups,
		GoalCount:  goals,
		ComputedAt: time.Now().UTC(),
	}, nil
}

// isCycle reports whether a component represents a real circular dependency:
// either multiple mutually reachable goals, or a single goal with a
// self-edge.
func isCycle(comp []graph.NodeID, adj map[graph.NodeID][]graph.NodeID) bool {
	if len(comp) > 1 {
		return true
	}
	node := comp[0]
	for _, next := range adj[node] {
		if next == node {
			return true
		}
	}
	return false
}
