package uselesson

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
	services "github.com/entercode/education-backend/internal/services/subscription"
)

type SubscriptionServiceMock struct {
	mock.Mock
}

func (m *SubscriptionServiceMock) UseLesson(ctx context.Context, username string) (*services.Info, error) {
	args := m.Called(ctx, username)
	info, _ := args.Get(0).(*services.Info)
	return info, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUseLessonHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(SubscriptionServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockInfo       *services.Info
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name:        "teacher debits named student",
			requestBody: Request{Username: "student1"},
			mockInfo: &services.Info{
				Status:           models.SubscriptionPaid,
				LessonsRemaining: 2,
				Valid:            true,
			},
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"status":            "paid",
				"lessons_remaining": float64(2),
				"valid":             true,
			},
			wantStatus: "OK",
		},
		{
			name:           "username is required",
			requestBody:    Request{},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Username is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "no valid subscription",
			requestBody:    Request{Username: "student1"},
			mockErr:        errs.ErrValidation,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request",
			wantStatus:     "Error",
		},
		{
			name:           "unknown student",
			requestBody:    Request{Username: "ghost"},
			mockErr:        errs.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "not found",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockInfo != nil || tt.mockErr != nil {
				serviceMock.On("UseLesson", mock.Anything, tt.requestBody.(Request).Username).
					Return(tt.mockInfo, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/subscriptions/use", bytes.NewReader(bodyBytes))
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

			serviceMock.AssertExpectations(t)
		})
	}
}
