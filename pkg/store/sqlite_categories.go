package store

import (
	"context"
	"fmt"
	"strings"
)

// CreateCategory inserts a new category and returns its row ID.
func (s *Store) CreateCategory(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read category id: %w", err)
	}
	return id, nil
}

// ListCategories returns every category ordered by ID.
func (s *Store) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var cats []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, &c)
	}
	return cats, rows.Err()
}

// LinkCategories records a parent/child relation. Inserting the same link
// twice is a no-op rather than an error.
func (s *Store) LinkCategories(ctx context.Context, parentID, childID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO category_links (parent_id, child_id) VALUES (?, ?)
	`, parentID, childID)
	if err != nil {
		return fmt.Errorf("failed to link categories %d->%d: %w", parentID, childID, err)
	}
	return nil
}

// ListCategoryLinks returns every parent/child relation in insertion order.
func (s *Store) ListCategoryLinks(ctx context.Context) ([]CategoryLink, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT parent_id, child_id FROM category_links ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category links: %w", err)
	}
	defer rows.Close()

	var links []CategoryLink
	for rows.Next() {
		var l CategoryLink
		if err := rows.Scan(&l.ParentID, &l.ChildID); err != nil {
			return nil, fmt.Errorf("failed to scan category link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// SumByCategories returns the total transaction amount (in cents) across the
// given category IDs. An empty ID set sums to zero without touching the DB.
func (s *Store) SumByCategories(ctx context.Context, categoryIDs []int64) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(categoryIDs)), ",")
	args := make([]interface{}, len(categoryIDs))
	for i, id := range categoryIDs {
		args[i] = id
	}

	var total int64
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		WHERE category_id IN (%s)
	`, placeholders)
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}
