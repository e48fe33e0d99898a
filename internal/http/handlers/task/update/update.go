// Package update реализует HTTP-обработчик частичного обновления задачи.
// Доступен преподавателям и выше.
package update

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

// Request — частичное обновление задачи, не заданные поля не меняются
type Request struct {
	Condition   *string   `json:"condition,omitempty"`
	Attachments *[]string `json:"attachments,omitempty"`
}

// Service описывает интерфейс бизнес-логики обновления задачи.
type Service interface {
	Update(ctx context.Context, uid string, patch models.TaskPatch) (*models.Task, error)
}

// Handler управляет HTTP-запросами на обновление задачи.
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
// @Summary Обновить задачу
// @Description Частично обновляет задачу по UID. Только для преподавателей и администраторов.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID задачи"
// @Param request body Request true "Изменяемые поля задачи"
// @Success 200 {object} response.Response "Обновлённая задача"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Задача не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tasks/{uid} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.update"

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

	task, err := h.service.Update(r.Context(), uid, models.TaskPatch{
		Condition:   req.Condition,
		Attachments: req.Attachments,
	})
	if err != nil {
		log.Error("failed to update task", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("task updated", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(task))
}
