// Package list реализует HTTP-обработчик получения задач темы.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики списка задач темы.
type Service interface {
	ListByTopic(ctx context.Context, topicUID string) ([]*models.Task, error)
}

// Handler управляет HTTP-запросами на получение задач темы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Задачи темы
// @Description Возвращает задачи темы с условиями и вложениями.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID темы"
// @Success 200 {object} response.Response "Список задач"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /topics/{uid}/tasks [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	topicUID := chi.URLParam(r, "uid")

	tasks, err := h.service.ListByTopic(r.Context(), topicUID)
	if err != nil {
		log.Error("failed to list tasks", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("tasks listed", slog.Int("count", len(tasks)))
	render.JSON(w, r, response.StatusOKWithData(tasks))
}
