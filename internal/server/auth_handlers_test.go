package server

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Post("/auth/signup", s.Signup)
	app.Post("/auth/login", s.Login)
	app.Post("/auth/refresh", s.Refresh)
	app.Post("/auth/logout", s.Logout)
	app.Get("/me", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals("userID")})
	})
	return app
}

func TestSignupAndLogin(t *testing.T) {
	s, _ := setupTestServer(t)
	app := authTestApp(s)

	resp, body := doRequest(t, app, jsonRequest(http.MethodPost, "/auth/signup", fiber.Map{
		"name":     "alice",
		"email":    "alice@example.com",
		"password": "Str0ng!Passw0rd",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["name"])

	resp, body = doRequest(t, app, jsonRequest(http.MethodPost, "/auth/login", fiber.Map{
		"email":    "alice@example.com",
		"password": "Str0ng!Passw0rd",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, body = doRequest(t, app, jsonRequest(http.MethodPost, "/auth/login", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong-password",
	}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestSignupValidation(t *testing.T) {
	s, _ := setupTestServer(t)
	app := authTestApp(s)

	cases := []struct {
		name    string
		payload fiber.Map
	}{
		{"weak password", fiber.Map{"name": "bob", "email": "bob@example.com", "password": "short"}},
		{"bad email", fiber.Map{"name": "bob", "email": "not-an-email", "password": "Str0ng!Passw0rd"}},
		{"bad username", fiber.Map{"name": "-bob-", "email": "bob@example.com", "password": "Str0ng!Passw0rd"}},
		{"missing fields", fiber.Map{"name": "bob"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := doRequest(t, app, jsonRequest(http.MethodPost, "/auth/signup", tc.payload))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	s, _ := setupTestServer(t)
	app := authTestApp(s)

	payload := fiber.Map{"name": "carol", "email": "carol@example.com", "password": "Str0ng!Passw0rd"}
	resp, _ := doRequest(t, app, jsonRequest(http.MethodPost, "/auth/signup", payload))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doRequest(t, app, jsonRequest(http.MethodPost, "/auth/signup", payload))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "A user with this email already exists", body["error"])
}

func TestAuthRequired(t *testing.T) {
	s, db := setupTestServer(t)
	app := authTestApp(s)
	user := seedUser(t, db, "dana", false)

	t.Run("missing token", func(t *testing.T) {
		resp, _ := doRequest(t, app, jsonRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := s.generateToken(user.ID, user.Name)
		require.NoError(t, err)

		req := jsonRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, body := doRequest(t, app, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(user.ID), body["userID"])
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token := signTestToken(t, s, jwt.MapClaims{
			"sub": strconv.FormatUint(uint64(user.ID), 10),
			"iss": "someone-else",
			"aud": tokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := jsonRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, body := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid token issuer", body["error"])
	})

	t.Run("wrong audience", func(t *testing.T) {
		token := signTestToken(t, s, jwt.MapClaims{
			"sub": strconv.FormatUint(uint64(user.ID), 10),
			"iss": tokenIssuer,
			"aud": "other-client",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := jsonRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, body := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid token audience", body["error"])
	})

	t.Run("expired token", func(t *testing.T) {
		token := signTestToken(t, s, jwt.MapClaims{
			"sub": strconv.FormatUint(uint64(user.ID), 10),
			"iss": tokenIssuer,
			"aud": tokenAudience,
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		req := jsonRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	s, db := setupTestServer(t)
	mr := miniredis.RunT(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := authTestApp(s)
	user := seedUser(t, db, "erin", false)

	token, err := s.generateToken(user.ID, user.Name)
	require.NoError(t, err)

	req := jsonRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = jsonRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, body := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out", body["message"])

	req = jsonRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, body = doRequest(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token has been revoked", body["error"])
}

func TestRefreshRotatesToken(t *testing.T) {
	s, db := setupTestServer(t)
	mr := miniredis.RunT(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := authTestApp(s)
	user := seedUser(t, db, "frank", false)

	oldToken, err := s.generateToken(user.ID, user.Name)
	require.NoError(t, err)

	req := jsonRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+oldToken)
	resp, body := doRequest(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	newToken, _ := body["token"].(string)
	require.NotEmpty(t, newToken)
	assert.NotEqual(t, oldToken, newToken)

	// The old token's jti is now blacklisted, the new one works.
	req = jsonRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+oldToken)
	resp, _ = doRequest(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = jsonRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+newToken)
	resp, _ = doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshRejectsMissingToken(t *testing.T) {
	s, _ := setupTestServer(t)
	app := authTestApp(s)

	resp, _ := doRequest(t, app, jsonRequest(http.MethodPost, "/auth/refresh", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func signTestToken(t *testing.T, s *Server, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.JWTSecret))
	require.NoError(t, err)
	return token
}
