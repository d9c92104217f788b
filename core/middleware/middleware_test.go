package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volops/core/config"
	"volops/core/constants"
	"volops/core/utils"
)

type stubCache struct {
	blacklisted map[string]bool
	failing     bool
}

func (s *stubCache) AddToTokenBlacklist(_ context.Context, token string, _ time.Duration) error {
	s.blacklisted[token] = true
	return nil
}

func (s *stubCache) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	if s.failing {
		return false, context.DeadlineExceeded
	}
	return s.blacklisted[token], nil
}

func (s *stubCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

func (s *stubCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }

func (s *stubCache) DeleteByPrefix(context.Context, string) error { return nil }

func (s *stubCache) Client() *redis.Client { return nil }

func (s *stubCache) Close() error { return nil }

func authRequest(t *testing.T, mw *Middleware, header string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	handler := mw.AuthMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return rec, handler(ctx)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected an echo HTTP error, got %T", err)
	return httpErr.Code
}

func TestAuthMiddleware(t *testing.T) {
	config.Set(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryHours: 1, Issuer: "volops-test"},
	})

	cache := &stubCache{blacklisted: make(map[string]bool)}
	mw := NewMiddleware(cache)

	token, err := utils.GenerateToken(uuid.New(), "vol@example.com", constants.ScopeTokenAccess)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		_, err := authRequest(t, mw, "")
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("malformed header", func(t *testing.T) {
		_, err := authRequest(t, mw, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := authRequest(t, mw, "Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("valid token passes", func(t *testing.T) {
		rec, err := authRequest(t, mw, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("blacklisted token is rejected", func(t *testing.T) {
		require.NoError(t, cache.AddToTokenBlacklist(context.Background(), token, time.Hour))
		_, err := authRequest(t, mw, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("cache failure is unavailable, not unauthorized", func(t *testing.T) {
		failing := NewMiddleware(&stubCache{blacklisted: map[string]bool{}, failing: true})
		_, err := authRequest(t, failing, "Bearer "+token)
		assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
	})
}
