package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eduviagens/booking-api/internal/queue"
	"github.com/eduviagens/booking-api/internal/repository"
)

// OrderHandler serves payment confirmation and order history.  Publish
// is optional; when set, a successful MarkPaid emits an order.paid
// event on a best-effort basis.
type OrderHandler struct {
	Orders  repository.OrderStore
	Publish func(ctx context.Context, event queue.OrderPaidEvent) error
}

func NewOrderHandler(os repository.OrderStore, publish func(ctx context.Context, event queue.OrderPaidEvent) error) *OrderHandler {
	return &OrderHandler{Orders: os, Publish: publish}
}

type markPaidReq struct {
	ReservationID string `json:"reservationId"`
	Metodo        string `json:"metodo"`
	Parcelas      *int   `json:"parcelas"`
}

// MarkPaid records a payment against a pendente reservation.  The
// order insert and the reservation confirmation happen in a single
// transaction inside the store; paying a reservation that is already
// confirmada or cancelada is a 409.
func (h *OrderHandler) MarkPaid(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req markPaidReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ReservationID = strings.TrimSpace(req.ReservationID)
	req.Metodo = strings.TrimSpace(req.Metodo)
	if req.ReservationID == "" || req.Metodo == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservationId and metodo are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.MarkPaid(ctx, uid, req.ReservationID, req.Metodo, req.Parcelas)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is already confirmed or cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
		}
	}

	if h.Publish != nil {
		event := queue.OrderPaidEvent{
			OrderID:       o.ID,
			ReservationID: o.ReservationID,
			UserID:        o.UserID,
			DestinoSlug:   o.DestinoSlug,
			DestinoNome:   o.DestinoNome,
			Total:         o.Total,
			Metodo:        o.Metodo,
			Parcelas:      o.Parcelas,
			PagoEm:        o.PagoEm.Format(time.RFC3339),
		}
		// Fire and forget: the payment already committed, downstream
		// consumers catch up whenever the broker is reachable.
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pubCancel()
			if err := h.Publish(pubCtx, event); err != nil {
				log.Printf("order %s: publish order.paid failed: %v", o.ID, err)
			}
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "order": o})
}

// ListMine returns the caller's orders, most recently paid first.
func (h *OrderHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Orders.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": list})
}

// Get returns one order, ownership-checked.
func (h *OrderHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.GetForUser(ctx, c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": o})
}

// GetByReservation returns the most recent order attached to a
// reservation of the caller.
func (h *OrderHandler) GetByReservation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.GetByReservation(ctx, c.Param("reservationId"), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": o})
}
