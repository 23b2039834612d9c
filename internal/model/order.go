package model

import "time"

// Order is a completed-payment record from the `orders` table.  It
// snapshots the reservation it confirms (slug, name, total) at payment
// time and is never mutated afterwards.
type Order struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	ReservationID string    `json:"reservationId"`
	DestinoSlug   string    `json:"destinoSlug"`
	DestinoNome   string    `json:"destinoNome"`
	Total         float64   `json:"total"`
	Metodo        string    `json:"metodo"`
	Parcelas      *int      `json:"parcelas,omitempty"`
	PagoEm        time.Time `json:"pagoEm"`
}
