package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	valid  map[string]uuid.UUID
	called int
}

type fakeClaims struct{ id uuid.UUID }

func (c *fakeClaims) GetUserID() uuid.UUID { return c.id }

func (v *fakeValidator) ValidateToken(token string) (UserIDGetter, error) {
	v.called++
	if id, ok := v.valid[token]; ok {
		return &fakeClaims{id: id}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func protectedEcho(t *testing.T) (http.Handler, *fakeValidator, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	validator := &fakeValidator{valid: map[string]uuid.UUID{"good-token": userID}}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserID(r)
		require.NoError(t, err)
		fmt.Fprint(w, id.String())
	})
	return AuthMiddleware(validator)(inner), validator, userID
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	handler, _, userID := protectedEcho(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestAuthMiddleware_CaseInsensitiveBearer(t *testing.T) {
	handler, _, _ := protectedEcho(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_QueryParameterFallback(t *testing.T) {
	handler, _, _ := protectedEcho(t)

	req := httptest.NewRequest("GET", "/?access_token=good-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	handler, validator, _ := protectedEcho(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic good-token"},
		{"no token", "Bearer"},
		{"bad token", "Bearer bad-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
	assert.Equal(t, 1, validator.called, "only the syntactically valid bad token reaches the validator")
}

func TestGetUserID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, err := GetUserID(req)
	assert.Error(t, err)
}
