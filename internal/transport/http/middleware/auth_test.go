package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkovac/chatline/internal/token"
	"github.com/dkovac/chatline/internal/transport/http/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func protectedEcho(t *testing.T, captured *uuid.UUID) http.Handler {
	t.Helper()
	return middleware.Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = middleware.GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestAuthPassesUserIDToHandler(t *testing.T) {
	userID := uuid.New()
	signed, err := token.Sign(userID, []byte(testSecret))
	require.NoError(t, err)

	var got uuid.UUID
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	protectedEcho(t, &got).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, got)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	var got uuid.UUID
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	protectedEcho(t, &got).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, uuid.Nil, got)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestAuthRejectsTamperedToken(t *testing.T) {
	signed, err := token.Sign(uuid.New(), []byte("some-other-secret"))
	require.NoError(t, err)

	var got uuid.UUID
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	protectedEcho(t, &got).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, uuid.Nil, got)
}
