// Package list реализует HTTP-обработчик получения списка всех курсов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики списка курсов.
type Service interface {
	List(ctx context.Context) ([]*models.Course, error)
}

// Handler управляет HTTP-запросами на получение списка курсов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список курсов
// @Description Возвращает все курсы платформы.
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список курсов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courses, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list courses", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("courses listed", slog.Int("count", len(courses)))
	render.JSON(w, r, response.StatusOKWithData(courses))
}
