package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-calc-auth/internal/middleware"
	"go-calc-auth/internal/model"
)

func TestMeReturnsContextAccount(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(nil)
	account := model.Account{ID: 3, Username: "carol", Email: "carol@example.com", PasswordHash: "secret-digest", IsActive: true}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(middleware.WithAccount(req.Context(), account))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"carol"`)
	assert.NotContains(t, rec.Body.String(), "secret-digest")
}

func TestProtectedHandlersRequireContextAccount(t *testing.T) {
	t.Parallel()

	auth := NewAuthHandler(nil)
	calcs := NewCalcHandler(nil)

	for name, fn := range map[string]http.HandlerFunc{
		"me":       auth.Me,
		"password": auth.ChangePassword,
		"record":   calcs.Create,
		"list":     calcs.List,
	} {
		rec := httptest.NewRecorder()
		fn(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"), name)
	}
}
