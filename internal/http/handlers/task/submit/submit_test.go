package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/entercode/education-backend/internal/http/middlewarectx"
	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/models"
)

type TaskServiceMock struct {
	mock.Mock
}

func (m *TaskServiceMock) Submit(ctx context.Context, taskUID, username, solution string, attachments []string) (*models.TaskResult, error) {
	args := m.Called(ctx, taskUID, username, solution, attachments)
	result, _ := args.Get(0).(*models.TaskResult)
	return result, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSubmitHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(TaskServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	taskUID := "6f1a7d8e-3c0b-4f2d-9a57-1be8f2f6c901"

	tests := []struct {
		name           string
		requestBody    interface{}
		ctxUsername    string
		mockResult     *models.TaskResult
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:        "valid submission",
			requestBody: Request{Solution: "x = 42"},
			ctxUsername: "student1",
			mockResult: &models.TaskResult{
				TaskUID:  taskUID,
				UserUID:  "user-uid-1",
				Solution: "x = 42",
				Status:   models.TaskUnderReview,
			},
			wantStatusCode: http.StatusOK,
			wantError:      "",
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			ctxUsername:    "student1",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - empty solution",
			requestBody:    Request{},
			ctxUsername:    "student1",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Solution is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "no username in context",
			requestBody:    Request{Solution: "x = 42"},
			ctxUsername:    "",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
			wantStatus:     "Error",
		},
		{
			name:           "subscription expired",
			requestBody:    Request{Solution: "x = 42"},
			ctxUsername:    "student1",
			mockErr:        errs.ErrForbidden,
			wantStatusCode: http.StatusForbidden,
			wantError:      "forbidden",
			wantStatus:     "Error",
		},
		{
			name:           "unknown task",
			requestBody:    Request{Solution: "x = 42"},
			ctxUsername:    "student1",
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

			if tt.mockResult != nil || tt.mockErr != nil {
				serviceMock.On("Submit", mock.Anything, taskUID, tt.ctxUsername,
					tt.requestBody.(Request).Solution, tt.requestBody.(Request).Attachments).
					Return(tt.mockResult, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/tasks/"+taskUID+"/submit", bytes.NewReader(bodyBytes))

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", taskUID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
			if tt.ctxUsername != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.ctxUsername)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp struct {
				Status string          `json:"status"`
				Error  string          `json:"error,omitempty"`
				Data   json.RawMessage `json:"data,omitempty"`
			}
			err = json.Unmarshal(rec.Body.Bytes(), &resp)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantError, resp.Error)

			if tt.mockResult != nil {
				var got models.TaskResult
				assert.NoError(t, json.Unmarshal(resp.Data, &got))
				assert.Equal(t, models.TaskUnderReview, got.Status)
				assert.Equal(t, "user-uid-1", got.UserUID)
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
