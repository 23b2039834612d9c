package repository

import (
	"context"
	"time"

	"github.com/eduviagens/booking-api/internal/model"
)

// The store interfaces below are what handlers depend on.  The MySQL
// types in this package implement them; tests substitute in-memory
// fakes.  Handlers must not know which implementation they hold.

// UserStore persists account records.
type UserStore interface {
	// Create inserts a user with an already-hashed password.  The email
	// must arrive normalized (lowercased, trimmed); a duplicate yields
	// ErrEmailExists.
	Create(ctx context.Context, nome, email, passwordHash string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// QuickTokenStore persists single-use exchange tokens.
type QuickTokenStore interface {
	Create(ctx context.Context, qt model.QuickToken) error
	Get(ctx context.Context, token string) (model.QuickToken, error)
	// Consume atomically marks a token used.  It fails with
	// ErrTokenUsed when the token was already consumed (including by a
	// concurrent exchange) and ErrTokenExpired when its expiry passed.
	Consume(ctx context.Context, token string, now time.Time) error
}

// MembershipStore persists (user, community-slug) pairs.  Join and
// Leave are idempotent.
type MembershipStore interface {
	Join(ctx context.Context, userID, slug string) error
	Leave(ctx context.Context, userID, slug string) error
	ListSlugs(ctx context.Context, userID string) ([]string, error)
}

// CommunityStore reads the seeded community catalog.
type CommunityStore interface {
	List(ctx context.Context) ([]model.Community, error)
	GetBySlug(ctx context.Context, slug string) (model.Community, error)
}

// ReservationStore persists reservation requests.  All reads are
// ownership-scoped; a reservation belonging to another user behaves as
// if it did not exist.
type ReservationStore interface {
	// Create fills in ID, Status (pendente) and CreatedAt.
	Create(ctx context.Context, r *model.Reservation) error
	GetForUser(ctx context.Context, id, userID string) (model.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	// UpdateStatus enforces the transition table: only a pendente
	// reservation may move, and only to confirmada or cancelada.
	UpdateStatus(ctx context.Context, id, userID, status string) (model.Reservation, error)
}

// OrderStore persists completed payments.
type OrderStore interface {
	// MarkPaid creates the order snapshot and confirms the reservation
	// in a single transaction.  A reservation that is not pendente at
	// call time yields ErrConflict.
	MarkPaid(ctx context.Context, userID, reservationID, metodo string, parcelas *int) (model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	GetForUser(ctx context.Context, id, userID string) (model.Order, error)
	// GetByReservation returns the most recent order for a reservation.
	GetByReservation(ctx context.Context, reservationID, userID string) (model.Order, error)
}
