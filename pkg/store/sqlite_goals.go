package store

import (
	"context"
	"fmt"
)

// CreateGoal inserts a goal and returns its row ID.
func (s *Store) CreateGoal(ctx context.Context, name string, targetCents int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (name, target_cents) VALUES (?, ?)
	`, name, targetCents)
	if err != nil {
		return 0, fmt.Errorf("failed to insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read goal id: %w", err)
	}
	return id, nil
}

// ListGoals returns every goal ordered by ID.
func (s *Store) ListGoals(ctx context.Context) ([]*Goal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, target_cents, created_at FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []*Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetCents, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, &g)
	}
	return goals, rows.Err()
}

// AddGoalDependency records that goalID depends on dependsOnID. Duplicate
// edges are ignored; self-dependencies are stored as-is and surface later as
// single-goal cycles.
func (s *Store) AddGoalDependency(ctx context.Context, goalID, dependsOnID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO goal_deps (goal_id, depends_on_id) VALUES (?, ?)
	`, goalID, dependsOnID)
	if err != nil {
		return fmt.Errorf("failed to add goal dependency %d->%d: %w", goalID, dependsOnID, err)
	}
	return nil
}

// ListGoalDependencies returns the dependency edges as an adjacency mapping
// keyed by goal ID. Every goal gets a key, even dependency-free ones, so the
// component analysis sees the full goal universe.
func (s *Store) ListGoalDependencies(ctx context.Context) (map[int64][]int64, error) {
	deps := make(map[int64][]int64)

	goalRows, err := s.db.QueryContext(ctx, `SELECT id FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer goalRows.Close()
	for goalRows.Next() {
		var id int64
		if err := goalRows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan goal id: %w", err)
		}
		deps[id] = nil
	}
	if err := goalRows.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT goal_id, depends_on_id FROM goal_deps ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goal deps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var from, to int64
		if err := rows.Scan(&from, &to); err != nil {
			return nil, fmt.Errorf("failed to scan goal dep: %w", err)
		}
		deps[from] = append(deps[from], to)
	}
	return deps, rows.Err()
}
