// Package submit реализует HTTP-обработчик отправки решения задачи студентом.
// Требует действующего абонемента.
package submit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/entercode/education-backend/internal/http/middlewarectx"
	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
)

// Request — входные данные для отправки решения
type Request struct {
	Solution    string   `json:"solution" validate:"required"`
	Attachments []string `json:"attachments,omitempty"`
}

// Service описывает интерфейс бизнес-логики отправки решения.
type Service interface {
	Submit(ctx context.Context, taskUID, username, solution string, attachments []string) (*models.TaskResult, error)
}

// Handler управляет HTTP-запросами на отправку решения.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправить решение задачи
// @Description Принимает решение студента и переводит его на проверку. Требует действующий абонемент.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID задачи"
// @Param request body Request true "Решение и вложения"
// @Success 200 {object} response.Response "Решение принято на проверку"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Абонемент недействителен"
// @Failure 404 {object} response.ErrorResponse "Задача не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tasks/{uid}/submit [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	result, err := h.service.Submit(r.Context(), uid, username, req.Solution, req.Attachments)
	if err != nil {
		log.Error("failed to submit solution", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("solution submitted",
		slog.String("task_uid", uid), slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(result))
}
