package engine

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rmax-ai/budgetlord/pkg/graph"
	"github.com/rmax-ai/budgetlord/pkg/store"
)

// TraversalMode selects the discovery order for subtree walks.
type TraversalMode string

const (
	TraversalBFS TraversalMode = "bfs"
	TraversalDFS TraversalMode = "dfs"
)

// CategoryStore defines the store access the category service needs.
type CategoryStore interface {
	ListCategoryLinks(ctx context.Context) ([]store.CategoryLink, error)
	SumByCategories(ctx context.Context, categoryIDs []int64) (int64, error)
	SetSystemState(ctx context.Context, key, value string) error
}

// RollupResult is the spending total across one category subtree.
type RollupResult struct {
	RootID      int64     `json:"root_id"`
	CategoryIDs []int64   `json:"category_ids"`
	TotalCents  int64     `json:"total_cents"`
	ComputedAt  time.Time `json:"computed_at"`
}

// CategoryService maintains the category hierarchy as an undirected graph
// and answers subtree and spending-rollup queries against it.
//
// The graph itself is not safe for concurrent use, so the service swaps in a
// freshly built graph under a write lock on Refresh and traverses under a
// read lock.
type CategoryService struct {
	store CategoryStore

	mu sync.RWMutex
	g  *graph.Graph
}

// NewCategoryService creates a service with an empty hierarchy. Call Refresh
// to load the stored links.
func NewCategoryService(st CategoryStore) *CategoryService {
	return &CategoryService{
		store: st,
		g:     graph.New(false),
	}
}

// Refresh rebuilds the hierarchy graph from the stored parent/child links.
func (s *CategoryService) Refresh(ctx context.Context) error {
	links, err := s.store.ListCategoryLinks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load category links: %w", err)
	}

	g := graph.New(false)
	for _, l := range links {
		g.AddEdge(graph.NodeID(l.ParentID), graph.NodeID(l.ChildID))
	}

	s.mu.Lock()
	s.g = g
	s.mu.Unlock()

	BudgetlordGraphNodes.Set(float64(g.NodeCount()))
	BudgetlordGraphEdges.Set(float64(g.EdgeCount()))
	return nil
}

// Subtree returns the category IDs reachable from root, including root
// itself, in the order the chosen traversal discovers them. A root with no
// links yields just the root.
func (s *CategoryService) Subtree(root int64, mode TraversalMode) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var nodes []graph.NodeID
	switch mode {
	case TraversalDFS:
		nodes = graph.DFS(s.g, graph.NodeID(root))
	default:
		nodes = graph.BFS(s.g, graph.NodeID(root))
	}

	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = int64(n)
	}
	return ids
}

// Rollup sums transaction amounts across the subtree rooted at root.
func (s *CategoryService) Rollup(ctx context.Context, root int64, mode TraversalMode) (*RollupResult, error) {
	ids := s.Subtree(root, mode)

	total, err := s.store.SumByCategories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("rollup for category %d failed: %w", root, err)
	}

	now := time.Now().UTC()
	rootLabel := strconv.FormatInt(root, 10)
	BudgetlordRollupTotal.WithLabelValues(rootLabel, string(mode)).Inc()
	BudgetlordRollupCents.WithLabelValues(rootLabel).Set(float64(total))

	// Best effort bookkeeping; a rollup is still valid if this write fails.
	_ = s.store.SetSystemState(ctx, "last_rollup_ts", now.Format(time.RFC3339))

	return &RollupResult{
		RootID:      root,
		CategoryIDs: ids,
		TotalCents:  total,
		ComputedAt:  now,
	}, nil
}
