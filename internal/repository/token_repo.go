package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotelhub/internal/model"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same queries
// run inside and outside a rotation transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TokenQueries is the operation set available inside a rotation transaction.
type TokenQueries interface {
	FindValidForUpdate(ctx context.Context, userID string) (model.RefreshTokenRecord, error)
	Create(ctx context.Context, rec model.RefreshTokenRecord) error
	Invalidate(ctx context.Context, tokenID string) error
}

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Rotate runs fn inside a transaction that holds the user's valid refresh
// rows locked, serializing concurrent rotations for the same user.
func (r *TokenRepository) Rotate(ctx context.Context, fn func(ctx context.Context, q TokenQueries) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rotation tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &tokenQueries{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rotation tx: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindValid(ctx context.Context, userID string) (model.RefreshTokenRecord, error) {
	return (&tokenQueries{q: r.pool}).findValid(ctx, userID, false)
}

func (r *TokenRepository) FindByID(ctx context.Context, tokenID string, userID string) (model.RefreshTokenRecord, error) {
	var rec model.RefreshTokenRecord
	err := r.pool.QueryRow(ctx,
		`SELECT id, token_hash, user_id, valid, expires_at, created_at
		 FROM refresh_tokens WHERE id = $1 AND user_id = $2`,
		tokenID, userID).
		Scan(&rec.ID, &rec.TokenHash, &rec.UserID, &rec.Valid, &rec.ExpiresAt, &rec.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.RefreshTokenRecord{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.RefreshTokenRecord{}, fmt.Errorf("find refresh token by id: %w", err)
	}
	return rec, nil
}

func (r *TokenRepository) Invalidate(ctx context.Context, tokenID string) error {
	return (&tokenQueries{q: r.pool}).Invalidate(ctx, tokenID)
}

func (r *TokenRepository) InvalidateAllForUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET valid = FALSE WHERE user_id = $1 AND valid`, userID)
	if err != nil {
		return fmt.Errorf("invalidate refresh tokens for user: %w", err)
	}
	return nil
}

// CleanExpired removes rows whose expiry is long past. The auth flow itself
// never deletes records; this is periodic maintenance only.
func (r *TokenRepository) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= now() - interval '24 hours'`)
	if err != nil {
		return 0, fmt.Errorf("clean expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

type tokenQueries struct {
	q querier
}

func (t *tokenQueries) FindValidForUpdate(ctx context.Context, userID string) (model.RefreshTokenRecord, error) {
	return t.findValid(ctx, userID, true)
}

func (t *tokenQueries) findValid(ctx context.Context, userID string, forUpdate bool) (model.RefreshTokenRecord, error) {
	query := `SELECT id, token_hash, user_id, valid, expires_at, created_at
		 FROM refresh_tokens
		 WHERE user_id = $1 AND valid AND expires_at > now()
		 ORDER BY created_at DESC
		 LIMIT 1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var rec model.RefreshTokenRecord
	err := t.q.QueryRow(ctx, query, userID).
		Scan(&rec.ID, &rec.TokenHash, &rec.UserID, &rec.Valid, &rec.ExpiresAt, &rec.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.RefreshTokenRecord{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.RefreshTokenRecord{}, fmt.Errorf("find valid refresh token: %w", err)
	}
	return rec, nil
}

func (t *tokenQueries) Create(ctx context.Context, rec model.RefreshTokenRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := t.q.Exec(ctx,
		`INSERT INTO refresh_tokens (id, token_hash, user_id, valid, expires_at, created_at)
		 VALUES ($1, $2, $3, TRUE, $4, $5)`,
		rec.ID, rec.TokenHash, rec.UserID, rec.ExpiresAt, createdAt)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

func (t *tokenQueries) Invalidate(ctx context.Context, tokenID string) error {
	_, err := t.q.Exec(ctx,
		`UPDATE refresh_tokens SET valid = FALSE WHERE id = $1`, tokenID)
	if err != nil {
		return fmt.Errorf("invalidate refresh token: %w", err)
	}
	return nil
}
