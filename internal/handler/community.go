package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eduviagens/booking-api/internal/repository"
)

// CommunityHandler serves the public community catalog and membership
// operations.
type CommunityHandler struct {
	Communities repository.CommunityStore
	Memberships repository.MembershipStore
}

func NewCommunityHandler(cs repository.CommunityStore, ms repository.MembershipStore) *CommunityHandler {
	return &CommunityHandler{Communities: cs, Memberships: ms}
}

// List returns the full community catalog.  No authentication.
func (h *CommunityHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Communities.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"communities": list})
}

// Get returns one community by slug.
func (h *CommunityHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	com, err := h.Communities.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "community not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"community": com})
}

// Join adds the caller to a community.  The slug is validated against
// the catalog first; the membership store itself only guarantees the
// at-most-one-row invariant.  Joining twice is idempotent.
func (h *CommunityHandler) Join(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Communities.GetBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "community not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Memberships.Join(ctx, uid, slug); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "join failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Leave removes the caller from a community.  Leaving a community the
// caller never joined still succeeds.
func (h *CommunityHandler) Leave(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Memberships.Leave(ctx, uid, c.Param("slug")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "leave failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
