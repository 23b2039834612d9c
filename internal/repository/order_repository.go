package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/eduviagens/booking-api/internal/model"
)

// OrderRepo is the MySQL implementation of OrderStore.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderCols = "id, user_id, reservation_id, destino_slug, destino_nome, total, metodo, parcelas, pago_em"

// MarkPaid creates the order and confirms the reservation inside one
// transaction.  The SELECT ... FOR UPDATE holds a row lock on the
// reservation, so two concurrent payments serialize: the second sees
// status=confirmada and gets ErrConflict instead of a duplicate order.
func (r *OrderRepo) MarkPaid(ctx context.Context, userID, reservationID, metodo string, parcelas *int) (model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		ownerID     string
		destinoSlug string
		destinoNome string
		total       float64
		status      string
	)
	err = tx.QueryRowContext(ctx,
		"SELECT user_id, destino_slug, destino_nome, total_estimado, status FROM reservations WHERE id=? FOR UPDATE",
		reservationID).Scan(&ownerID, &destinoSlug, &destinoNome, &total, &status)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	if ownerID != userID {
		// Same error as absence: callers must not learn that someone
		// else's reservation exists.
		return model.Order{}, ErrNotFound
	}
	if status != model.StatusPendente {
		return model.Order{}, ErrConflict
	}

	o := model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		ReservationID: reservationID,
		DestinoSlug:   destinoSlug,
		DestinoNome:   destinoNome,
		Total:         total,
		Metodo:        metodo,
		Parcelas:      parcelas,
		PagoEm:        time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO orders ("+orderCols+") VALUES (?,?,?,?,?,?,?,?,?)",
		o.ID, o.UserID, o.ReservationID, o.DestinoSlug, o.DestinoNome,
		o.Total, o.Metodo, o.Parcelas, o.PagoEm); err != nil {
		return model.Order{}, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE id=?",
		model.StatusConfirmada, reservationID); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	return o, nil
}

// ListByUser returns the user's orders, most recently paid first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE user_id=? ORDER BY pago_em DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// GetForUser returns the order only when it belongs to userID.
func (r *OrderRepo) GetForUser(ctx context.Context, id, userID string) (model.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE id=? AND user_id=? LIMIT 1",
		id, userID)
	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	return o, err
}

// GetByReservation returns the most recent order for a reservation,
// scoped to the calling user.
func (r *OrderRepo) GetByReservation(ctx context.Context, reservationID, userID string) (model.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE reservation_id=? AND user_id=? ORDER BY pago_em DESC LIMIT 1",
		reservationID, userID)
	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	return o, err
}

func scanOrder(scan func(...interface{}) error) (model.Order, error) {
	var o model.Order
	var parcelas sql.NullInt64
	if err := scan(&o.ID, &o.UserID, &o.ReservationID, &o.DestinoSlug, &o.DestinoNome,
		&o.Total, &o.Metodo, &parcelas, &o.PagoEm); err != nil {
		return model.Order{}, err
	}
	if parcelas.Valid {
		p := int(parcelas.Int64)
		o.Parcelas = &p
	}
	return o, nil
}
