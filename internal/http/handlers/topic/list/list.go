// Package list реализует HTTP-обработчик получения тем курса.
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

// Service описывает интерфейс бизнес-логики списка тем курса.
type Service interface {
	ListByCourse(ctx context.Context, courseUID string) ([]*models.Topic, error)
}

// Handler управляет HTTP-запросами на получение тем курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Темы курса
// @Description Возвращает темы курса с учебными материалами.
// @Tags Topics
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID курса"
// @Success 200 {object} response.Response "Список тем"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{uid}/topics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.topic.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courseUID := chi.URLParam(r, "uid")

	topics, err := h.service.ListByCourse(r.Context(), courseUID)
	if err != nil {
		log.Error("failed to list topics", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("topics listed", slog.Int("count", len(topics)))
	render.JSON(w, r, response.StatusOKWithData(topics))
}
