package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/models"
	services "github.com/entercode/education-backend/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, username, rawPassword string) (*models.User, *services.TokenPair, error) {
	args := m.Called(ctx, username, rawPassword)
	user, _ := args.Get(0).(*models.User)
	pair, _ := args.Get(1).(*services.TokenPair)
	return user, pair, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUser       *models.User
		mockPair       *services.TokenPair
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name:        "valid login",
			requestBody: Request{Username: "user1", Password: "password123"},
			mockUser:    &models.User{Username: "user1", Role: models.RoleStudent},
			mockPair:    &services.TokenPair{AccessToken: "tok", RefreshToken: "ref"},
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"username":      "user1",
				"role":          "student",
				"access_token":  "tok",
				"refresh_token": "ref",
			},
			wantError:  "",
			wantStatus: "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantData:       nil,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Username: "user1"},
			wantStatusCode: http.StatusBadRequest,
			wantData:       nil,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "wrong password",
			requestBody:    Request{Username: "user1", Password: "password123"},
			mockErr:        errs.ErrUnauthorized,
			wantStatusCode: http.StatusUnauthorized,
			wantData:       nil,
			wantError:      "unauthorized",
			wantStatus:     "Error",
		},
		{
			name:           "unknown user",
			requestBody:    Request{Username: "ghost", Password: "password123"},
			mockErr:        errs.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantData:       nil,
			wantError:      "not found",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockUser != nil || tt.mockErr != nil {
				authMock.On("Login", mock.Anything, tt.requestBody.(Request).Username, tt.requestBody.(Request).Password).
					Return(tt.mockUser, tt.mockPair, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp struct {
				Status string         `json:"status"`
				Error  string         `json:"error,omitempty"`
				Data   map[string]any `json:"data,omitempty"`
			}
			err = json.Unmarshal(rec.Body.Bytes(), &resp)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantError, resp.Error)
			if tt.wantData != nil {
				assert.Equal(t, tt.wantData, resp.Data)
			}

			authMock.AssertExpectations(t)
		})
	}
}
