package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okValidator(t *testing.T, wantToken string) TokenValidator {
	t.Helper()
	return func(token string) (*Claims, error) {
		if token != wantToken {
			return nil, errors.New("unexpected token")
		}
		return &Claims{UserID: "user-1", Email: "ama@st.ug.edu.gh", Role: "buyer"}, nil
	}
}

func echoUserHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(UserIDFromContext(r.Context())))
	})
}

func TestAuth_ValidToken(t *testing.T) {
	handler := Auth(okValidator(t, "good-token"))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAuth_MissingHeader(t *testing.T) {
	handler := Auth(okValidator(t, "good-token"))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "No token, authorization denied", resp["message"])
}

func TestAuth_MalformedHeader(t *testing.T) {
	handler := Auth(okValidator(t, "good-token"))(echoUserHandler())

	for _, header := range []string{"good-token", "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(okValidator(t, "good-token"))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Token is not valid", resp["message"])
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	handler := OptionalAuth(okValidator(t, "good-token"))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users/abc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestOptionalAuth_WithToken(t *testing.T) {
	handler := OptionalAuth(okValidator(t, "good-token"))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users/abc", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestOptionalAuth_BadTokenStaysAnonymous(t *testing.T) {
	handler := OptionalAuth(okValidator(t, "good-token"))(echoUserHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users/abc", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRoleFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RoleFromContext(req.Context()))
}
