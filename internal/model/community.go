package model

import "time"

// Community is a catalog entry from the `communities` table.  The
// catalog is seeded by migration and read-only at runtime.  Tags are
// stored as a CSV column and split before serialization.
type Community struct {
	Slug      string   `json:"slug"`
	Nome      string   `json:"nome"`
	Descricao string   `json:"descricao"`
	Membros   int      `json:"membros"`
	Tags      []string `json:"tags"`
	Capa      string   `json:"capa,omitempty"`
}

// Membership links a user to a community.  The (UserID, Slug) pair is
// unique; joining twice upserts and leaving twice is a no-op.
type Membership struct {
	UserID   string    // community_memberships.user_id
	Slug     string    // community_memberships.slug
	JoinedAt time.Time // community_memberships.joined_at
}
