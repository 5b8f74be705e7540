package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// RegisterIdentity upserts an API identity with its token hash.
func (s *Store) RegisterIdentity(ctx context.Context, identityID, kind, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identities (identity_id, kind, token_hash) VALUES (?, ?, ?)
		ON CONFLICT(identity_id) DO UPDATE SET kind = excluded.kind, token_hash = excluded.token_hash
	`, identityID, kind, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to register identity %s: %w", identityID, err)
	}
	return nil
}

// GetIdentityByTokenHash looks up an identity by its hashed bearer token.
// Returns (nil, nil) when no identity matches.
func (s *Store) GetIdentityByTokenHash(ctx context.Context, tokenHash string) (*Identity, error) {
	var id Identity
	err := s.db.QueryRowContext(ctx, `
		SELECT identity_id, kind, token_hash, created_at FROM identities WHERE token_hash = ?
	`, tokenHash).Scan(&id.IdentityID, &id.Kind, &id.TokenHash, &id.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}
	return &id, nil
}
