// Package review реализует HTTP-обработчик проверки решения преподавателем.
package review

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
)

// Request — входные данные для проверки решения
type Request struct {
	Username string  `json:"username" validate:"required"`
	Score    float64 `json:"score" validate:"gte=0,lte=10"`
	Status   string  `json:"status" validate:"required,oneof=correct rejected wrong_answer"`
}

// Service описывает интерфейс бизнес-логики проверки решения.
type Service interface {
	Review(ctx context.Context, taskUID, username string, score float64, status models.TaskStatus) (*models.TaskResult, error)
}

// Handler управляет HTTP-запросами на проверку решения.
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
// @Summary Проверить решение задачи
// @Description Выставляет оценку и итоговый статус решению студента. Только для преподавателей и администраторов.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID задачи"
// @Param request body Request true "Студент, оценка и вердикт"
// @Success 200 {object} response.Response "Результат после проверки"
// @Failure 400 {object} response.ErrorResponse "Недопустимый вердикт"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Решение не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tasks/{uid}/review [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.review"

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

	result, err := h.service.Review(r.Context(), uid, req.Username, req.Score, models.TaskStatus(req.Status))
	if err != nil {
		log.Error("failed to review solution", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("solution reviewed",
		slog.String("task_uid", uid),
		slog.String("username", req.Username),
		slog.String("status", req.Status))
	render.JSON(w, r, response.StatusOKWithData(result))
}
