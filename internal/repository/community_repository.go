package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/eduviagens/booking-api/internal/model"
)

// CommunityRepo reads the community catalog seeded by migration.  Tags
// live in a CSV column and are split before leaving this package.
type CommunityRepo struct{ DB *sql.DB }

func NewCommunityRepo(db *sql.DB) *CommunityRepo { return &CommunityRepo{DB: db} }

// List returns all communities ordered by display name.
func (r *CommunityRepo) List(ctx context.Context) ([]model.Community, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT slug, nome, descricao, membros, tags, capa FROM communities ORDER BY nome ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Community, 0)
	for rows.Next() {
		c, err := scanCommunity(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetBySlug returns a single community.
func (r *CommunityRepo) GetBySlug(ctx context.Context, slug string) (model.Community, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT slug, nome, descricao, membros, tags, capa FROM communities WHERE slug=? LIMIT 1", slug)
	c, err := scanCommunity(row.Scan)
	if err == sql.ErrNoRows {
		return model.Community{}, ErrNotFound
	}
	return c, err
}

func scanCommunity(scan func(...interface{}) error) (model.Community, error) {
	var c model.Community
	var tags string
	var capa sql.NullString
	if err := scan(&c.Slug, &c.Nome, &c.Descricao, &c.Membros, &tags, &capa); err != nil {
		return model.Community{}, err
	}
	c.Tags = splitTags(tags)
	if capa.Valid {
		c.Capa = capa.String
	}
	return c, nil
}

func splitTags(csv string) []string {
	out := make([]string, 0)
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
