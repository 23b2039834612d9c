package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/eduviagens/booking-api/internal/model"
)

// QuickTokenRepo is the MySQL implementation of QuickTokenStore.
// Expired rows are not swept in the background; they are rejected on
// lookup and cleaned opportunistically by DeleteExpired.
type QuickTokenRepo struct{ DB *sql.DB }

func NewQuickTokenRepo(db *sql.DB) *QuickTokenRepo { return &QuickTokenRepo{DB: db} }

// Create inserts a quick token row with used=0.
func (r *QuickTokenRepo) Create(ctx context.Context, qt model.QuickToken) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO quick_tokens (token, user_id, expires_at, used, created_at) VALUES (?,?,?,0,?)",
		qt.Token, qt.UserID, qt.ExpiresAt, time.Now().UTC())
	return err
}

// Get loads a quick token by its value.
func (r *QuickTokenRepo) Get(ctx context.Context, token string) (model.QuickToken, error) {
	var qt model.QuickToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT token, user_id, expires_at, used, created_at FROM quick_tokens WHERE token=? LIMIT 1",
		token).Scan(&qt.Token, &qt.UserID, &qt.ExpiresAt, &qt.Used, &qt.CreatedAt)
	if err == sql.ErrNoRows {
		return model.QuickToken{}, ErrNotFound
	}
	return qt, err
}

// Consume marks a token used.  The WHERE clause carries the used and
// expiry guards so two concurrent exchanges of the same token cannot
// both succeed: exactly one UPDATE wins, the loser sees zero rows.
func (r *QuickTokenRepo) Consume(ctx context.Context, token string, now time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE quick_tokens SET used=1 WHERE token=? AND used=0 AND expires_at>?",
		token, now)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// Lost the row: figure out which guard failed for the caller.
	qt, err := r.Get(ctx, token)
	if err != nil {
		return err
	}
	if qt.Used {
		return ErrTokenUsed
	}
	return ErrTokenExpired
}

// DeleteExpired removes tokens whose expiry passed before the cutoff.
// Called lazily to bound table growth.
func (r *QuickTokenRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM quick_tokens WHERE expires_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
