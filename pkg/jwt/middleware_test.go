package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/jwt"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	service, err := jwt.NewFromString("test-secret")
	require.NoError(t, err)

	token, err := service.Generate(jwt.Claims{"sub": "test-user"}, time.Hour)
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwt.GetClaims(r.Context())
		if !ok {
			http.Error(w, "claims not found in context", http.StatusInternalServerError)
			return
		}
		if _, ok := jwt.GetToken(r.Context()); !ok {
			http.Error(w, "token not found in context", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(claims.Subject()))
	})

	t.Run("valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		jwt.Middleware(service)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "test-user", rec.Body.String())
	})

	t.Run("missing authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		jwt.Middleware(service)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()

		jwt.Middleware(service)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()

		jwt.Middleware(service)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("skip function bypasses validation", func(t *testing.T) {
		mw := jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
			Service: service,
			Skip:    func(r *http.Request) bool { return r.URL.Path == "/public" },
		})

		public := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		rec := httptest.NewRecorder()
		mw(public).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestTokenExtractors(t *testing.T) {
	t.Parallel()

	t.Run("cookie extractor", func(t *testing.T) {
		extractor := jwt.CookieTokenExtractor("session")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "cookie-token"})

		token, err := extractor(req)
		require.NoError(t, err)
		assert.Equal(t, "cookie-token", token)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		_, err = extractor(req)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("header extractor", func(t *testing.T) {
		extractor := jwt.HeaderTokenExtractor("X-Api-Token")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Api-Token", "header-token")

		token, err := extractor(req)
		require.NoError(t, err)
		assert.Equal(t, "header-token", token)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		_, err = extractor(req)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
