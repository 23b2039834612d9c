package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduviagens/booking-api/internal/utils"
)

func newMeFixture(t *testing.T) (*MeHandler, *fakeUserStore, *fakeMembershipStore, string) {
	t.Helper()
	users := newFakeUserStore()
	ms := newFakeMembershipStore()
	hash, err := utils.HashPassword("segredo", 4)
	require.NoError(t, err)
	u, err := users.Create(context.Background(), "Ana", "ana@example.com", hash)
	require.NoError(t, err)
	return NewMeHandler(testConfig(), users, ms), users, ms, u.ID
}

func TestMe(t *testing.T) {
	t.Run("returns the caller's profile", func(t *testing.T) {
		h, _, _, uid := newMeFixture(t)
		c, rec := newJSONContext(t, http.MethodGet, "/me", "")
		c.Set("user_id", uid)
		require.NoError(t, h.Me(c))
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ana@example.com", user["email"])
		assert.NotContains(t, user, "passwordHash")
	})

	t.Run("deleted account yields user null", func(t *testing.T) {
		h, _, _, _ := newMeFixture(t)
		c, rec := newJSONContext(t, http.MethodGet, "/me", "")
		c.Set("user_id", "gone")
		require.NoError(t, h.Me(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, decodeBody(t, rec)["user"])
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("replaces the hash when current matches", func(t *testing.T) {
		h, users, _, uid := newMeFixture(t)
		c, rec := newJSONContext(t, http.MethodPost, "/me/password",
			`{"current":"segredo","next":"novosegredo"}`)
		c.Set("user_id", uid)
		require.NoError(t, h.ChangePassword(c))
		require.Equal(t, http.StatusOK, rec.Code)

		u, err := users.GetByID(context.Background(), uid)
		require.NoError(t, err)
		assert.True(t, utils.VerifyPassword(u.PasswordHash, "novosegredo"))
		assert.False(t, utils.VerifyPassword(u.PasswordHash, "segredo"))
	})

	t.Run("wrong current password is 401", func(t *testing.T) {
		h, _, _, uid := newMeFixture(t)
		c, rec := newJSONContext(t, http.MethodPost, "/me/password",
			`{"current":"errada","next":"novosegredo"}`)
		c.Set("user_id", uid)
		require.NoError(t, h.ChangePassword(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("short new password is 400", func(t *testing.T) {
		h, _, _, uid := newMeFixture(t)
		c, rec := newJSONContext(t, http.MethodPost, "/me/password",
			`{"current":"segredo","next":"curta"}`)
		c.Set("user_id", uid)
		require.NoError(t, h.ChangePassword(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		h, _, _, _ := newMeFixture(t)
		c, rec := newJSONContext(t, http.MethodPost, "/me/password",
			`{"current":"segredo","next":"novosegredo"}`)
		c.Set("user_id", "gone")
		require.NoError(t, h.ChangePassword(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMyCommunities(t *testing.T) {
	h, _, ms, uid := newMeFixture(t)
	require.NoError(t, ms.Join(context.Background(), uid, "arte-e-cultura"))
	require.NoError(t, ms.Join(context.Background(), uid, "roteiros-historicos"))

	c, rec := newJSONContext(t, http.MethodGet, "/me/communities", "")
	c.Set("user_id", uid)
	require.NoError(t, h.MyCommunities(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.ElementsMatch(t, []any{"arte-e-cultura", "roteiros-historicos"}, body["communities"])
}
