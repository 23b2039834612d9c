package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/eduviagens/booking-api/internal/model"
)

// ReservationRepo is the MySQL implementation of ReservationStore.
// All timestamps are stored in UTC; ida and volta are DATE columns.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationCols = "id, user_id, destino_slug, destino_nome, destino_imagem, ida, volta, pessoas, forma_pagamento, total_estimado, status, created_at"

// Create inserts a reservation.  ID, Status and CreatedAt are filled
// in here so every reservation starts its life as pendente.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	res.ID = uuid.NewString()
	res.Status = model.StatusPendente
	res.CreatedAt = time.Now().UTC()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO reservations ("+reservationCols+") VALUES (?,?,?,?,?,?,?,?,?,?,?,?)",
		res.ID, res.UserID, res.DestinoSlug, res.DestinoNome, res.DestinoImagem,
		res.Ida, res.Volta, res.Pessoas, res.FormaPagamento, res.TotalEstimado,
		res.Status, res.CreatedAt)
	return err
}

// GetForUser returns the reservation only when it belongs to userID.
// Absent and not-owned are both ErrNotFound.
func (r *ReservationRepo) GetForUser(ctx context.Context, id, userID string) (model.Reservation, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE id=? AND user_id=? LIMIT 1",
		id, userID)
	res, err := scanReservation(row.Scan)
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// ListByUser returns the user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE user_id=? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// UpdateStatus moves a reservation through the transition table.  The
// UPDATE keeps the current status in its WHERE clause, so a concurrent
// confirm or cancel cannot be overwritten: the second writer matches
// zero rows and fails.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id, userID, status string) (model.Reservation, error) {
	cur, err := r.GetForUser(ctx, id, userID)
	if err != nil {
		return model.Reservation{}, err
	}
	if !model.ValidTransition(cur.Status, status) {
		return model.Reservation{}, ErrInvalidTransition
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE id=? AND user_id=? AND status=?",
		status, id, userID, cur.Status)
	if err != nil {
		return model.Reservation{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Reservation{}, ErrInvalidTransition
	}
	cur.Status = status
	return cur, nil
}

func scanReservation(scan func(...interface{}) error) (model.Reservation, error) {
	var res model.Reservation
	var imagem, forma sql.NullString
	var ida, volta time.Time
	if err := scan(&res.ID, &res.UserID, &res.DestinoSlug, &res.DestinoNome, &imagem,
		&ida, &volta, &res.Pessoas, &forma, &res.TotalEstimado,
		&res.Status, &res.CreatedAt); err != nil {
		return model.Reservation{}, err
	}
	res.Ida = ida.Format("2006-01-02")
	res.Volta = volta.Format("2006-01-02")
	if imagem.Valid {
		res.DestinoImagem = &imagem.String
	}
	if forma.Valid {
		res.FormaPagamento = &forma.String
	}
	return res, nil
}
