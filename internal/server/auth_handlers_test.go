package server

import (
	"net/http"
	"testing"

	"dreamdeck/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSignup(t *testing.T) {
	db := setupTestDB(t)
	s := newTestServer(t, db, nil, &stubGenerator{})
	app := newTestApp(s)

	t.Run("success returns user and token pair", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
			"username": "dreamer",
			"email":    "dreamer@example.com",
			"password": testPassword,
			"bio":      "I keep a journal.",
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body map[string]any
		decodeJSON(t, resp, &body)
		assert.NotEmpty(t, body["access_token"])
		assert.NotEmpty(t, body["refresh_token"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "dreamer", user["username"])
		assert.NotContains(t, user, "password")
	})

	t.Run("weak password", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
			"username": "weakling",
			"email":    "weakling@example.com",
			"password": "short",
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		decodeJSON(t, resp, &body)
		assert.Equal(t, "WEAK_PASSWORD", body.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
			"username": "dreamer",
			"email":    "other@example.com",
			"password": testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		decodeJSON(t, resp, &body)
		assert.Equal(t, "USER_EXISTS", body.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
			"username": "dreamer2",
			"email":    "dreamer@example.com",
			"password": testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		decodeJSON(t, resp, &body)
		assert.Equal(t, "USER_EXISTS", body.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
			"username": "dreamer3",
			"email":    "not-an-email",
			"password": testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		decodeJSON(t, resp, &body)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
	})
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	s := newTestServer(t, db, nil, &stubGenerator{})
	app := newTestApp(s)
	createTestUser(t, db, "login-user")

	t.Run("by username", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"identifier": "login-user",
			"password":   testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeJSON(t, resp, &body)
		assert.NotEmpty(t, body["access_token"])
		assert.NotEmpty(t, body["refresh_token"])
	})

	t.Run("by email", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"identifier": "login-user@example.com",
			"password":   testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("username field works as identifier", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"username": "login-user",
			"password": testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("token alias route", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/token", map[string]string{
			"identifier": "login-user",
			"password":   testPassword,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong password and unknown identifier are indistinguishable", func(t *testing.T) {
		wrongPass, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"identifier": "login-user",
			"password":   "Wr0ngPassw0rd!",
		}))
		require.NoError(t, err)

		unknown, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"identifier": "no-such-user",
			"password":   testPassword,
		}))
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)

		var bodyA, bodyB models.ErrorResponse
		decodeJSON(t, wrongPass, &bodyA)
		decodeJSON(t, unknown, &bodyB)
		assert.Equal(t, bodyA, bodyB)
		assert.Equal(t, "INVALID_CREDENTIALS", bodyA.Code)
	})
}

func TestRefresh(t *testing.T) {
	db := setupTestDB(t)
	s := newTestServer(t, db, newTestRedis(t), &stubGenerator{})
	app := newTestApp(s)
	user := createTestUser(t, db, "refresher")

	pair, err := s.generateTokenPair(user.ID, user.Username)
	require.NoError(t, err)

	t.Run("rotates the refresh token", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/refresh", map[string]string{
			"refresh_token": pair.RefreshToken,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body tokenPair
		decodeJSON(t, resp, &body)
		assert.NotEmpty(t, body.AccessToken)
		assert.NotEmpty(t, body.RefreshToken)
		assert.NotEqual(t, pair.RefreshToken, body.RefreshToken)

		// The presented token was revoked; replaying it must fail.
		replay, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/refresh", map[string]string{
			"refresh_token": pair.RefreshToken,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, replay.StatusCode)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/refresh", map[string]string{
			"refresh_token": pair.AccessToken,
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/refresh", map[string]string{}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	s := newTestServer(t, db, newTestRedis(t), &stubGenerator{})
	app := newTestApp(s)
	user := createTestUser(t, db, "leaver")

	pair, err := s.generateTokenPair(user.ID, user.Username)
	require.NoError(t, err)

	// Token works before logout.
	resp, err := app.Test(authedRequest(t, http.MethodGet, "/api/users/me", pair.AccessToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(authedRequest(t, http.MethodPost, "/api/auth/logout", pair.AccessToken, map[string]string{
		"refresh_token": pair.RefreshToken,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Both tokens are now revoked.
	resp, err = app.Test(authedRequest(t, http.MethodGet, "/api/users/me", pair.AccessToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	db := setupTestDB(t)
	s := newTestServer(t, db, nil, &stubGenerator{})
	app := newTestApp(s)
	user := createTestUser(t, db, "guarded")

	pair, err := s.generateTokenPair(user.ID, user.Username)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/users/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, http.MethodGet, "/api/users/me", "not.a.jwt", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("refresh token cannot open protected routes", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, http.MethodGet, "/api/users/me", pair.RefreshToken, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body models.ErrorResponse
		decodeJSON(t, resp, &body)
		assert.Equal(t, "Invalid token type", body.Error)
	})

	t.Run("access token works", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, http.MethodGet, "/api/users/me", pair.AccessToken, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body models.User
		decodeJSON(t, resp, &body)
		assert.Equal(t, "guarded", body.Username)
	})
}
