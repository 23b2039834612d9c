package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduviagens/booking-api/internal/model"
	"github.com/eduviagens/booking-api/internal/queue"
)

func newOrderFixture(t *testing.T) (*OrderHandler, *ReservationHandler, model.Reservation) {
	t.Helper()
	rs := newFakeReservationStore()
	resH := NewReservationHandler(rs)
	ordH := NewOrderHandler(newFakeOrderStore(rs), nil)
	res := createReservation(t, resH, "user-1", sampleReservationBody)
	return ordH, resH, res
}

func TestOrderMarkPaid(t *testing.T) {
	t.Run("creates an order and confirms the reservation", func(t *testing.T) {
		ordH, resH, res := newOrderFixture(t)

		c, rec := newJSONContext(t, http.MethodPost, "/orders/mark-paid",
			`{"reservationId":"`+res.ID+`","metodo":"pix"}`)
		c.Set("user_id", "user-1")
		require.NoError(t, ordH.MarkPaid(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			OK    bool        `json:"ok"`
			Order model.Order `json:"order"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, res.ID, resp.Order.ReservationID)
		assert.Equal(t, res.TotalEstimado, resp.Order.Total, "total snapshots the reservation estimate")
		assert.Equal(t, "pix", resp.Order.Metodo)
		assert.Nil(t, resp.Order.Parcelas)

		updated, err := resH.Reservations.GetForUser(context.Background(), res.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmada, updated.Status)
	})

	t.Run("carries parcelas through", func(t *testing.T) {
		ordH, _, res := newOrderFixture(t)

		c, rec := newJSONContext(t, http.MethodPost, "/orders/mark-paid",
			`{"reservationId":"`+res.ID+`","metodo":"cartao","parcelas":6}`)
		c.Set("user_id", "user-1")
		require.NoError(t, ordH.MarkPaid(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Order model.Order `json:"order"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Order.Parcelas)
		assert.Equal(t, 6, *resp.Order.Parcelas)
	})

	t.Run("paying twice is a 409", func(t *testing.T) {
		ordH, _, res := newOrderFixture(t)
		body := `{"reservationId":"` + res.ID + `","metodo":"pix"}`

		c, rec := newJSONContext(t, http.MethodPost, "/orders/mark-paid", body)
		c.Set("user_id", "user-1")
		require.NoError(t, ordH.MarkPaid(c))
		require.Equal(t, http.StatusOK, rec.Code)

		c2, rec2 := newJSONContext(t, http.MethodPost, "/orders/mark-paid", body)
		c2.Set("user_id", "user-1")
		require.NoError(t, ordH.MarkPaid(c2))
		assert.Equal(t, http.StatusConflict, rec2.Code)
	})

	t.Run("cancelled reservation is a 409", func(t *testing.T) {
		ordH, resH, res := newOrderFixture(t)
		_, err := resH.Reservations.UpdateStatus(context.Background(), res.ID, "user-1", model.StatusCancelada)
		require.NoError(t, err)

		c, rec := newJSONContext(t, http.MethodPost, "/orders/mark-paid",
			`{"reservationId":"`+res.ID+`","metodo":"pix"}`)
		c.Set("user_id", "user-1")
		require.NoError(t, ordH.MarkPaid(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("someone else's reservation is a 404", func(t *testing.T) {
		ordH, _, res := newOrderFixture(t)

		c, rec := newJSONContext(t, http.MethodPost, "/orders/mark-paid",
			`{"reservationId":"`+res.ID+`","metodo":"pix"}`)
		c.Set("user_id", "user-2")
		require.NoError(t, ordH.MarkPaid(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("requires reservationId and metodo", func(t *testing.T) {
		ordH, _, _ := newOrderFixture(t)
		for name, body := range map[string]string{
			"missing metodo":        `{"reservationId":"r1"}`,
			"missing reservationId": `{"metodo":"pix"}`,
			"blank fields":          `{"reservationId":"  ","metodo":" "}`,
		} {
			t.Run(name, func(t *testing.T) {
				c, rec := newJSONContext(t, http.MethodPost, "/orders/mark-paid", body)
				c.Set("user_id", "user-1")
				require.NoError(t, ordH.MarkPaid(c))
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})

	t.Run("publishes an order.paid event on success", func(t *testing.T) {
		rs := newFakeReservationStore()
		resH := NewReservationHandler(rs)
		res := createReservation(t, resH, "user-1", sampleReservationBody)

		published := make(chan queue.OrderPaidEvent, 1)
		ordH := NewOrderHandler(newFakeOrderStore(rs), func(_ context.Context, event queue.OrderPaidEvent) error {
			published <- event
			return nil
		})

		c, rec := newJSONContext(t, http.MethodPost, "/orders/mark-paid",
			`{"reservationId":"`+res.ID+`","metodo":"pix"}`)
		c.Set("user_id", "user-1")
		require.NoError(t, ordH.MarkPaid(c))
		require.Equal(t, http.StatusOK, rec.Code)

		event := <-published
		assert.Equal(t, res.ID, event.ReservationID)
		assert.Equal(t, "user-1", event.UserID)
		assert.Equal(t, "pix", event.Metodo)
	})
}

func TestOrderReads(t *testing.T) {
	ordH, _, res := newOrderFixture(t)

	c, rec := newJSONContext(t, http.MethodPost, "/orders/mark-paid",
		`{"reservationId":"`+res.ID+`","metodo":"pix"}`)
	c.Set("user_id", "user-1")
	require.NoError(t, ordH.MarkPaid(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var paid struct {
		Order model.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paid))

	t.Run("list mine", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/orders/me", "")
		c.Set("user_id", "user-1")
		require.NoError(t, ordH.ListMine(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Orders []model.Order `json:"orders"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Orders, 1)
		assert.Equal(t, paid.Order.ID, resp.Orders[0].ID)
	})

	t.Run("get by id is ownership scoped", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/orders/"+paid.Order.ID, "")
		c.Set("user_id", "user-1")
		c.SetParamNames("id")
		c.SetParamValues(paid.Order.ID)
		require.NoError(t, ordH.Get(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		c2, rec2 := newJSONContext(t, http.MethodGet, "/orders/"+paid.Order.ID, "")
		c2.Set("user_id", "user-2")
		c2.SetParamNames("id")
		c2.SetParamValues(paid.Order.ID)
		require.NoError(t, ordH.Get(c2))
		assert.Equal(t, http.StatusNotFound, rec2.Code)
	})

	t.Run("get by reservation", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/orders/by-reservation/"+res.ID, "")
		c.Set("user_id", "user-1")
		c.SetParamNames("reservationId")
		c.SetParamValues(res.ID)
		require.NoError(t, ordH.GetByReservation(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Order model.Order `json:"order"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, paid.Order.ID, resp.Order.ID)
	})
}
