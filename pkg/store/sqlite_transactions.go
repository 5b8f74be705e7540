package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// AddTransaction inserts a transaction and returns its row ID. A zero
// TsPosted defaults to now.
func (s *Store) AddTransaction(ctx context.Context, tx *Transaction) (int64, error) {
	ts := tx.TsPosted
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (category_id, amount_cents, note, ts_posted)
		VALUES (?, ?, ?, ?)
	`, tx.CategoryID, tx.AmountCents, tx.Note, ts)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read transaction id: %w", err)
	}
	return id, nil
}

// ListTransactions returns transactions matching the filter, newest first.
func (s *Store) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error) {
	var conds []string
	var args []interface{}

	if !filter.From.IsZero() {
		conds = append(conds, "ts_posted >= ?")
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		conds = append(conds, "ts_posted < ?")
		args = append(args, filter.To)
	}
	if len(filter.CategoryIDs) > 0 {
		placeholders := strings.TrimRight(strings.Repeat("?,", len(filter.CategoryIDs)), ",")
		conds = append(conds, fmt.Sprintf("category_id IN (%s)", placeholders))
		for _, id := range filter.CategoryIDs {
			args = append(args, id)
		}
	}

	query := `SELECT id, category_id, amount_cents, COALESCE(note, ''), ts_posted FROM transactions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY ts_posted DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.CategoryID, &t.AmountCents, &t.Note, &t.TsPosted); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}
