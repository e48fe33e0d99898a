// Package create реализует HTTP-обработчик создания задачи в теме.
// Доступен преподавателям и выше.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
)

// Request — входные данные для создания задачи
type Request struct {
	TopicUID    string   `json:"topic_uid" validate:"required,uuid"`
	Condition   string   `json:"condition" validate:"required"`
	Attachments []string `json:"attachments,omitempty"`
}

// Service описывает интерфейс бизнес-логики создания задачи.
type Service interface {
	Create(ctx context.Context, topicUID, condition string, attachments []string) (*models.Task, error)
}

// Handler управляет HTTP-запросами на создание задачи.
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
// @Summary Создать задачу
// @Description Создает задачу в рамках существующей темы. Только для преподавателей и администраторов.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Условие и вложения задачи"
// @Success 200 {object} response.Response "Созданная задача"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Тема не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tasks [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	task, err := h.service.Create(r.Context(), req.TopicUID, req.Condition, req.Attachments)
	if err != nil {
		log.Error("failed to create task", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("task created", slog.String("uid", task.UID))
	render.JSON(w, r, response.StatusOKWithData(task))
}
