// Package read реализует HTTP-обработчик получения темы курса.
package read

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

// Service описывает интерфейс бизнес-логики чтения темы.
type Service interface {
	Read(ctx context.Context, uid string) (*models.Topic, error)
}

// Handler управляет HTTP-запросами на получение темы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить тему
// @Description Возвращает тему вместе со списком учебных материалов.
// @Tags Topics
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID темы"
// @Success 200 {object} response.Response "Тема"
// @Failure 404 {object} response.ErrorResponse "Тема не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /topics/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.topic.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	topic, err := h.service.Read(r.Context(), uid)
	if err != nil {
		log.Error("failed to read topic", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(topic))
}
