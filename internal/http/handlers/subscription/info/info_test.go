package info

import (
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

	"github.com/entercode/education-backend/internal/http/middlewarectx"
	"github.com/entercode/education-backend/internal/models"
	services "github.com/entercode/education-backend/internal/services/subscription"
)

type SubscriptionServiceMock struct {
	mock.Mock
}

func (m *SubscriptionServiceMock) GetInfo(ctx context.Context, username string) (*services.Info, error) {
	args := m.Called(ctx, username)
	info, _ := args.Get(0).(*services.Info)
	return info, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestInfoHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(SubscriptionServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		ctxUsername    string
		ctxRole        models.Role
		query          string
		wantServiceArg string
		mockInfo       *services.Info
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "student reads own subscription",
			ctxUsername:    "student1",
			ctxRole:        models.RoleStudent,
			wantServiceArg: "student1",
			mockInfo: &services.Info{
				Status:           models.SubscriptionPaid,
				LessonsRemaining: 3,
				Valid:            true,
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "student cannot read another user's subscription",
			ctxUsername:    "student1",
			ctxRole:        models.RoleStudent,
			query:          "?username=student2",
			wantStatusCode: http.StatusForbidden,
			wantError:      "forbidden",
		},
		{
			name:           "teacher reads student's subscription",
			ctxUsername:    "teacher1",
			ctxRole:        models.RoleTeacher,
			query:          "?username=student1",
			wantServiceArg: "student1",
			mockInfo: &services.Info{
				Status:           models.SubscriptionExpired,
				LessonsRemaining: 0,
				Valid:            false,
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "own username in query needs no elevated role",
			ctxUsername:    "student1",
			ctxRole:        models.RoleStudent,
			query:          "?username=student1",
			wantServiceArg: "student1",
			mockInfo: &services.Info{
				Status:           models.SubscriptionPaid,
				LessonsRemaining: 1,
				Valid:            true,
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "no username in context",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.wantServiceArg != "" {
				serviceMock.On("GetInfo", mock.Anything, tt.wantServiceArg).
					Return(tt.mockInfo, nil).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/subscriptions/info"+tt.query, nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.ctxUsername != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.ctxUsername)
				ctx = context.WithValue(ctx, middlewarectx.Role, tt.ctxRole)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp struct {
				Status string         `json:"status"`
				Error  string         `json:"error,omitempty"`
				Data   map[string]any `json:"data,omitempty"`
			}
			err := json.Unmarshal(rec.Body.Bytes(), &resp)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantError, resp.Error)
			if tt.mockInfo != nil {
				assert.Equal(t, string(tt.mockInfo.Status), resp.Data["status"])
				assert.Equal(t, float64(tt.mockInfo.LessonsRemaining), resp.Data["lessons_remaining"])
				assert.Equal(t, tt.mockInfo.Valid, resp.Data["valid"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
