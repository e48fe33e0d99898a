// Package read реализует HTTP-обработчик получения курса по UID.
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

// Service описывает интерфейс бизнес-логики чтения курса.
type Service interface {
	Read(ctx context.Context, uid string) (*models.Course, error)
}

// Handler управляет HTTP-запросами на получение курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить курс
// @Description Возвращает курс по UID.
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID курса"
// @Success 200 {object} response.Response "Курс"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	course, err := h.service.Read(r.Context(), uid)
	if err != nil {
		log.Error("failed to read course", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(course))
}
