package register

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/entercode/education-backend/internal/models"
	services "github.com/entercode/education-backend/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, req services.RegisterRequest) (*models.User, *services.TokenPair, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	pair, _ := args.Get(1).(*services.TokenPair)
	return user, pair, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validRequest(username string) Request {
	return Request{
		Name:           "Ivan",
		Surname:        "Petrov",
		Username:       username,
		Password:       "password123",
		RepeatPassword: "password123",
	}
}

func TestRegisterHandler_Validation(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	longPhone := strings.Repeat("7", 21)

	tests := []struct {
		name           string
		requestBody    Request
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "handle with underscore is accepted",
			requestBody:    validRequest("alice_smith"),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "two-char handle is accepted",
			requestBody:    validRequest("ab"),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "one-char handle is too short",
			requestBody:    validRequest("a"),
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Username is too short",
		},
		{
			name:           "34-char handle is too long",
			requestBody:    validRequest(strings.Repeat("a", 34)),
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Username is too long",
		},
		{
			name:           "hyphen in handle is rejected",
			requestBody:    validRequest("alice-smith"),
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Username can contain only letters, numbers and underscore",
		},
		{
			name: "too long phone is rejected",
			requestBody: func() Request {
				r := validRequest("alice")
				r.Phone = &longPhone
				return r
			}(),
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Phone is too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.wantStatusCode == http.StatusOK {
				authMock.On("Register", mock.Anything, mock.MatchedBy(func(req services.RegisterRequest) bool {
					return req.Username == tt.requestBody.Username
				})).Return(
					&models.User{UID: "uid-1", Username: tt.requestBody.Username, Role: models.RoleStudent},
					&services.TokenPair{AccessToken: "tok", RefreshToken: "ref"},
					nil,
				).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
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

			if tt.wantStatusCode == http.StatusOK {
				assert.Equal(t, "OK", resp.Status)
				assert.Equal(t, tt.requestBody.Username, resp.Data["username"])
				assert.Equal(t, "tok", resp.Data["access_token"])
			} else {
				assert.Equal(t, "Error", resp.Status)
				assert.Equal(t, tt.wantError, resp.Error)
			}

			authMock.AssertExpectations(t)
		})
	}
}
