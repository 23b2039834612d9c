// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPaidEvent is published when a reservation payment is recorded.
// It carries enough context for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type OrderPaidEvent struct {
	OrderID       string  `json:"order_id"`
	ReservationID string  `json:"reservation_id"`
	UserID        string  `json:"user_id"`
	DestinoSlug   string  `json:"destino_slug"`
	DestinoNome   string  `json:"destino_nome"`
	Total         float64 `json:"total"`
	Metodo        string  `json:"metodo"`
	Parcelas      *int    `json:"parcelas,omitempty"`
	PagoEm        string  `json:"pago_em"`
}
