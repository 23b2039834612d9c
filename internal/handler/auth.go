package handler

import (
	"context"      // context with cancellation for store calls
	"errors"       // errors.Is comparisons against repository sentinels
	"log"          // best-effort failure reporting
	"net/http"     // HTTP status codes
	"regexp"       // simple email shape check
	"strings"      // trimming and normalization
	"time"         // timeouts and expirations

	"github.com/labstack/echo/v4"

	"github.com/eduviagens/booking-api/internal/config"
	"github.com/eduviagens/booking-api/internal/model"
	"github.com/eduviagens/booking-api/internal/repository"
	"github.com/eduviagens/booking-api/internal/utils"
)

// emailPattern accepts any local@domain form without whitespace.  Real
// deliverability is the mail server's problem, not ours.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg         config.Config
	Users       repository.UserStore
	QuickTokens repository.QuickTokenStore
}

func NewAuthHandler(cfg config.Config, u repository.UserStore, q repository.QuickTokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, QuickTokens: q}
}

// ----- DTOs -----

type signupReq struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}
type loginReq struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}
type quickLoginReq struct {
	Token string `json:"token"`
}

type userPart struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
type authResp struct {
	OK    bool     `json:"ok"`
	Token string   `json:"token"`
	User  userPart `json:"user"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Nome: u.Nome, Email: u.Email, CreatedAt: u.CreatedAt}
}

// Signup creates an account and returns a session token immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Nome = strings.TrimSpace(req.Nome)
	if req.Nome == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome is required"})
	}
	if !emailPattern.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}
	if len(req.Senha) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "senha must have at least 6 characters"})
	}

	hash, err := utils.HashPassword(req.Senha, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Nome, strings.ToLower(strings.TrimSpace(req.Email)), hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "an account with this email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{OK: true, Token: tok.Token, User: toUserPart(u)})
}

// Login verifies credentials and returns a fresh session token.
// Previously issued tokens stay valid until their own expiry; the
// token scheme is stateless and has no revocation.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !emailPattern.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Senha) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "wrong password"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{OK: true, Token: tok.Token, User: toUserPart(u)})
}

// Logout always succeeds: session tokens are stateless, so there is
// nothing to invalidate server-side.  When the request carries a still
// valid bearer, a quick token is issued on a best-effort basis so the
// client can re-authenticate without a password; any failure there is
// logged and never fails the logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	resp := echo.Map{"ok": true}

	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		raw := strings.TrimPrefix(auth, "Bearer ")
		if uid, ok := utils.VerifySessionToken(h.Cfg.JWTSecret, raw); ok {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			if qt, err := h.issueQuickToken(ctx, uid); err == nil {
				resp["quickToken"] = qt.Token
				resp["expiresAt"] = qt.ExpiresAt
			} else {
				log.Printf("logout: quick token issue failed: %v", err)
			}
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// QuickToken issues a short-lived single-use token for the caller.
// Outstanding quick tokens for the same user are not invalidated.
func (h *AuthHandler) QuickToken(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	qt, err := h.issueQuickToken(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "token": qt.Token, "expiresAt": qt.ExpiresAt})
}

func (h *AuthHandler) issueQuickToken(ctx context.Context, userID string) (model.QuickToken, error) {
	value, err := utils.NewQuickTokenValue()
	if err != nil {
		return model.QuickToken{}, err
	}
	qt := model.QuickToken{
		Token:     value,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(time.Duration(h.Cfg.QuickTokenTTLMin) * time.Minute),
	}
	if err := h.QuickTokens.Create(ctx, qt); err != nil {
		return model.QuickToken{}, err
	}
	return qt, nil
}

// QuickLogin exchanges a quick token for a session token.  The consume
// write is atomic at the store, so a token authenticates at most once
// even under concurrent exchange attempts, and the session token is
// only issued after that write succeeds.
func (h *AuthHandler) QuickLogin(c echo.Context) error {
	var req quickLoginReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	qt, err := h.QuickTokens.Get(ctx, req.Token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if qt.Used {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token already used"})
	}
	now := time.Now().UTC()
	if qt.ExpiresAt.Before(now) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token expired"})
	}

	u, err := h.Users.GetByID(ctx, qt.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.QuickTokens.Consume(ctx, req.Token, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrTokenUsed):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "token already used"})
		case errors.Is(err, repository.ErrTokenExpired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "token expired"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "exchange failed"})
		}
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{OK: true, Token: tok.Token, User: toUserPart(u)})
}
