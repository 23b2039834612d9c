package model

import "time"

// Reservation status values.  A reservation is always created as
// StatusPendente.  The only legal transitions are pendente->confirmada
// and pendente->cancelada; confirmada and cancelada are terminal.
const (
	StatusPendente   = "pendente"
	StatusConfirmada = "confirmada"
	StatusCancelada  = "cancelada"
)

// ValidTransition reports whether a reservation may move from one
// status to another.
func ValidTransition(from, to string) bool {
	if from != StatusPendente {
		return false
	}
	return to == StatusConfirmada || to == StatusCancelada
}

// Reservation mirrors the `reservations` table.  Destination fields
// are denormalized snapshots of the external destination catalog so a
// reservation stays renderable even if the catalog changes.  Ida and
// Volta are calendar dates in YYYY-MM-DD form.
type Reservation struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	DestinoSlug    string    `json:"destinoSlug"`
	DestinoNome    string    `json:"destinoNome"`
	DestinoImagem  *string   `json:"destinoImagem,omitempty"`
	Ida            string    `json:"ida"`
	Volta          string    `json:"volta"`
	Pessoas        int       `json:"pessoas"`
	FormaPagamento *string   `json:"formaPagamento,omitempty"`
	TotalEstimado  float64   `json:"totalEstimado"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}
