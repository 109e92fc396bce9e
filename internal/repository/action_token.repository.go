package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

// ActionTokenStore persists secret-action tokens (email verification,
// password reset). One row per (user, purpose); issuing replaces the prior
// token, consuming deletes the row atomically.
type ActionTokenStore interface {
	Replace(ctx context.Context, userID int64, purpose, tokenHash string) error
	Consume(ctx context.Context, purpose, tokenHash string) (*domain.ActionToken, error)
}

type ActionTokenRepository struct {
	db *pgxpool.Pool
}

func NewActionTokenRepository(db *pgxpool.Pool) *ActionTokenRepository {
	return &ActionTokenRepository{db: db}
}

// Replace upserts the token for (user, purpose), invalidating any prior
// outstanding token for the same purpose.
func (r *ActionTokenRepository) Replace(ctx context.Context, userID int64, purpose, tokenHash string) error {
	query := `
		INSERT INTO user_action_tokens (user_id, purpose, token_hash, issued_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, purpose)
		DO UPDATE SET token_hash = EXCLUDED.token_hash, issued_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, userID, purpose, tokenHash); err != nil {
		return fmt.Errorf("failed to store action token: %w", err)
	}
	return nil
}

// Consume deletes the row matching (purpose, hash) and returns it. The
// single DELETE ... RETURNING makes redemption atomic: a concurrent
// duplicate attempt sees no row and fails with ErrInvalidActionToken.
func (r *ActionTokenRepository) Consume(ctx context.Context, purpose, tokenHash string) (*domain.ActionToken, error) {
	query := `
		DELETE FROM user_action_tokens
		WHERE purpose = $1 AND token_hash = $2
		RETURNING user_id, purpose, token_hash, issued_at
	`
	t := new(domain.ActionToken)
	err := r.db.QueryRow(ctx, query, purpose, tokenHash).
		Scan(&t.UserID, &t.Purpose, &t.TokenHash, &t.IssuedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrInvalidActionToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume action token: %w", err)
	}
	return t, nil
}
