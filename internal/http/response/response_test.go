package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/errs"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errs.ErrValidation, http.StatusBadRequest},
		{"unauthorized", errs.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", errs.ErrForbidden, http.StatusForbidden},
		{"not found", errs.ErrNotFound, http.StatusNotFound},
		{"conflict", errs.ErrConflict, http.StatusConflict},
		{"unknown error", errors.New("db down"), http.StatusInternalServerError},
		{
			"wrapped sentinel",
			fmt.Errorf("services.auth.Login: %w", errs.ErrUnauthorized),
			http.StatusUnauthorized,
		},
		{
			"double wrapped sentinel",
			fmt.Errorf("op: %w", fmt.Errorf("inner: %w", errs.ErrConflict)),
			http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, response.StatusCode(tt.err))
		})
	}
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", errs.ErrNotFound, http.StatusNotFound, "not found"},
		{"conflict", errs.ErrConflict, http.StatusConflict, "already exists"},
		{"internal hides details", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			response.RenderError(w, r, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestStatusOKWithData(t *testing.T) {
	resp := response.StatusOKWithData(map[string]any{"uid": "abc"})
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}
