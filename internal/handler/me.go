package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eduviagens/booking-api/internal/config"
	"github.com/eduviagens/booking-api/internal/repository"
	"github.com/eduviagens/booking-api/internal/utils"
)

// MeHandler serves the authenticated user's own profile endpoints.
type MeHandler struct {
	Cfg         config.Config
	Users       repository.UserStore
	Memberships repository.MembershipStore
}

func NewMeHandler(cfg config.Config, u repository.UserStore, m repository.MembershipStore) *MeHandler {
	return &MeHandler{Cfg: cfg, Users: u, Memberships: m}
}

// Me returns the caller's profile, or {"user": null} when the account
// behind a still-valid token no longer exists.
func (h *MeHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"user": nil})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

type changePasswordReq struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

// ChangePassword overwrites the caller's password hash after checking
// the current password.  Sessions issued before the change remain
// valid until their own expiry: the token scheme is stateless and this
// is a documented trade-off, not an oversight.
func (h *MeHandler) ChangePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Next) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new senha must have at least 6 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Current) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current senha is incorrect"})
	}

	hash, err := utils.HashPassword(req.Next, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := h.Users.UpdatePassword(ctx, uid, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// MyCommunities lists the slugs of communities the caller joined.  The
// client joins them against the catalog to render details.
func (h *MeHandler) MyCommunities(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slugs, err := h.Memberships.ListSlugs(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"communities": slugs})
}
