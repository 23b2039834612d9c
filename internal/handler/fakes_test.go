package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eduviagens/booking-api/internal/model"
	"github.com/eduviagens/booking-api/internal/repository"
)

// In-memory store fakes used by the handler tests.  They implement the
// same sentinel-error contract as the MySQL repositories so handlers
// behave identically against either.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, nome, email, passwordHash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	u := model.User{
		ID:           uuid.NewString(),
		Nome:         nome,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

type fakeQuickTokenStore struct {
	mu     sync.Mutex
	tokens map[string]model.QuickToken
}

func newFakeQuickTokenStore() *fakeQuickTokenStore {
	return &fakeQuickTokenStore{tokens: map[string]model.QuickToken{}}
}

func (s *fakeQuickTokenStore) Create(_ context.Context, qt model.QuickToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	qt.CreatedAt = time.Now().UTC()
	s.tokens[qt.Token] = qt
	return nil
}

func (s *fakeQuickTokenStore) Get(_ context.Context, token string) (model.QuickToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	qt, ok := s.tokens[token]
	if !ok {
		return model.QuickToken{}, repository.ErrNotFound
	}
	return qt, nil
}

func (s *fakeQuickTokenStore) Consume(_ context.Context, token string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	qt, ok := s.tokens[token]
	if !ok {
		return repository.ErrNotFound
	}
	if qt.Used {
		return repository.ErrTokenUsed
	}
	if !qt.ExpiresAt.After(now) {
		return repository.ErrTokenExpired
	}
	qt.Used = true
	s.tokens[token] = qt
	return nil
}

type fakeMembershipStore struct {
	mu      sync.Mutex
	members map[string]map[string]bool
}

func newFakeMembershipStore() *fakeMembershipStore {
	return &fakeMembershipStore{members: map[string]map[string]bool{}}
}

func (s *fakeMembershipStore) Join(_ context.Context, userID, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[userID] == nil {
		s.members[userID] = map[string]bool{}
	}
	s.members[userID][slug] = true
	return nil
}

func (s *fakeMembershipStore) Leave(_ context.Context, userID, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members[userID], slug)
	return nil
}

func (s *fakeMembershipStore) ListSlugs(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slugs := make([]string, 0, len(s.members[userID]))
	for slug := range s.members[userID] {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs, nil
}

type fakeCommunityStore struct {
	communities []model.Community
}

func (s *fakeCommunityStore) List(_ context.Context) ([]model.Community, error) {
	return s.communities, nil
}

func (s *fakeCommunityStore) GetBySlug(_ context.Context, slug string) (model.Community, error) {
	for _, com := range s.communities {
		if com.Slug == slug {
			return com, nil
		}
	}
	return model.Community{}, repository.ErrNotFound
}

type fakeReservationStore struct {
	mu           sync.Mutex
	reservations map[string]model.Reservation
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{reservations: map[string]model.Reservation{}}
}

func (s *fakeReservationStore) Create(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = uuid.NewString()
	r.Status = model.StatusPendente
	r.CreatedAt = time.Now().UTC()
	s.reservations[r.ID] = *r
	return nil
}

func (s *fakeReservationStore) GetForUser(_ context.Context, id, userID string) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok || r.UserID != userID {
		return model.Reservation{}, repository.ErrNotFound
	}
	return r, nil
}

func (s *fakeReservationStore) ListByUser(_ context.Context, userID string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.Reservation
	for _, r := range s.reservations {
		if r.UserID == userID {
			list = append(list, r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *fakeReservationStore) UpdateStatus(_ context.Context, id, userID, status string) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok || r.UserID != userID {
		return model.Reservation{}, repository.ErrNotFound
	}
	if !model.ValidTransition(r.Status, status) {
		return model.Reservation{}, repository.ErrInvalidTransition
	}
	r.Status = status
	s.reservations[id] = r
	return r, nil
}

// fakeOrderStore shares the reservation map so MarkPaid can flip the
// reservation to confirmada the way the transactional repository does.
type fakeOrderStore struct {
	mu           sync.Mutex
	reservations *fakeReservationStore
	orders       map[string]model.Order
}

func newFakeOrderStore(rs *fakeReservationStore) *fakeOrderStore {
	return &fakeOrderStore{reservations: rs, orders: map[string]model.Order{}}
}

func (s *fakeOrderStore) MarkPaid(_ context.Context, userID, reservationID, metodo string, parcelas *int) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations.mu.Lock()
	defer s.reservations.mu.Unlock()

	r, ok := s.reservations.reservations[reservationID]
	if !ok || r.UserID != userID {
		return model.Order{}, repository.ErrNotFound
	}
	if r.Status != model.StatusPendente {
		return model.Order{}, repository.ErrConflict
	}

	o := model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		ReservationID: reservationID,
		DestinoSlug:   r.DestinoSlug,
		DestinoNome:   r.DestinoNome,
		Total:         r.TotalEstimado,
		Metodo:        metodo,
		Parcelas:      parcelas,
		PagoEm:        time.Now().UTC(),
	}
	s.orders[o.ID] = o
	r.Status = model.StatusConfirmada
	s.reservations.reservations[reservationID] = r
	return o, nil
}

func (s *fakeOrderStore) ListByUser(_ context.Context, userID string) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []model.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].PagoEm.After(list[j].PagoEm) })
	return list, nil
}

func (s *fakeOrderStore) GetForUser(_ context.Context, id, userID string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.UserID != userID {
		return model.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (s *fakeOrderStore) GetByReservation(_ context.Context, reservationID, userID string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest model.Order
	found := false
	for _, o := range s.orders {
		if o.ReservationID == reservationID && o.UserID == userID {
			if !found || o.PagoEm.After(latest.PagoEm) {
				latest = o
				found = true
			}
		}
	}
	if !found {
		return model.Order{}, repository.ErrNotFound
	}
	return latest, nil
}
