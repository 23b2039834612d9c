package repository

import (
	"context"
	"database/sql"
)

// MembershipRepo is the MySQL implementation of MembershipStore.  The
// composite primary key (user_id, slug) makes Join idempotent at the
// storage level.
type MembershipRepo struct{ DB *sql.DB }

func NewMembershipRepo(db *sql.DB) *MembershipRepo { return &MembershipRepo{DB: db} }

// Join upserts a membership row.  Joining twice leaves exactly one row.
func (r *MembershipRepo) Join(ctx context.Context, userID, slug string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO community_memberships (user_id, slug) VALUES (?,?) ON DUPLICATE KEY UPDATE slug=slug",
		userID, slug)
	return err
}

// Leave deletes the membership row if it exists.  Leaving a community
// the user never joined is a no-op, not an error.
func (r *MembershipRepo) Leave(ctx context.Context, userID, slug string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM community_memberships WHERE user_id=? AND slug=?",
		userID, slug)
	return err
}

// ListSlugs returns the community slugs the user belongs to.
func (r *MembershipRepo) ListSlugs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT slug FROM community_memberships WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slugs := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}
