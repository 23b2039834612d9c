package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eduviagens/booking-api/internal/model"
	"github.com/eduviagens/booking-api/internal/repository"
)

// ReservationHandler serves the reservation lifecycle for the
// authenticated user: create, list, fetch, cancel.
type ReservationHandler struct {
	Reservations repository.ReservationStore
}

func NewReservationHandler(rs repository.ReservationStore) *ReservationHandler {
	return &ReservationHandler{Reservations: rs}
}

type createReservationReq struct {
	DestinoSlug    string  `json:"destinoSlug"`
	DestinoNome    string  `json:"destinoNome"`
	DestinoImagem  *string `json:"destinoImagem"`
	Ida            string  `json:"ida"`
	Volta          string  `json:"volta"`
	Pessoas        int     `json:"pessoas"`
	FormaPagamento *string `json:"formaPagamento"`
	TotalEstimado  float64 `json:"totalEstimado"`
}

// Create registers a reservation request.  Destination fields arrive
// denormalized from the client-side catalog.  Every reservation starts
// as pendente.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.DestinoSlug = strings.TrimSpace(req.DestinoSlug)
	req.DestinoNome = strings.TrimSpace(req.DestinoNome)
	if req.DestinoSlug == "" || req.DestinoNome == "" || req.Ida == "" || req.Volta == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "destinoSlug, destinoNome, ida and volta are required"})
	}
	for _, d := range []string{req.Ida, req.Volta} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be in YYYY-MM-DD format"})
		}
	}
	if req.Pessoas < 1 {
		req.Pessoas = 1
	}
	if req.TotalEstimado < 0 {
		req.TotalEstimado = 0
	}

	res := model.Reservation{
		UserID:         uid,
		DestinoSlug:    req.DestinoSlug,
		DestinoNome:    req.DestinoNome,
		DestinoImagem:  req.DestinoImagem,
		Ida:            req.Ida,
		Volta:          req.Volta,
		Pessoas:        req.Pessoas,
		FormaPagamento: req.FormaPagamento,
		TotalEstimado:  req.TotalEstimado,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.Create(ctx, &res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reservation": res})
}

// ListMine returns the caller's reservations, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reservations.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// Get returns one reservation.  A reservation owned by someone else is
// reported as not found.
func (h *ReservationHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetForUser(ctx, c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus moves a reservation through its transition table.  Only
// pendente->confirmada and pendente->cancelada are legal; anything
// else, including unknown status strings, is a 400.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.UpdateStatus(ctx, c.Param("id"), uid, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status transition"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reservation": res})
}
