package model

import "time"

// User represents a row in the `users` table.  Emails are stored
// lowercased and are unique.  PasswordHash holds a bcrypt digest and
// is never serialized to clients.
type User struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// QuickToken models a row in the `quick_tokens` table.  A quick token
// is a short-lived, single-use credential that can be exchanged for a
// fresh session token without re-entering a password.  Once Used is
// set the token never authenticates again.
type QuickToken struct {
	Token     string    // quick_tokens.token (random, URL-safe)
	UserID    string    // quick_tokens.user_id
	ExpiresAt time.Time // quick_tokens.expires_at
	Used      bool      // quick_tokens.used
	CreatedAt time.Time // quick_tokens.created_at
}
