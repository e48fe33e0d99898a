// Package remove реализует HTTP-обработчик удаления курса вместе
// с группами, темами и задачами. Доступен преподавателям и выше.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики удаления курса.
type Service interface {
	Remove(ctx context.Context, uid string) error
}

// Handler управляет HTTP-запросами на удаление курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить курс
// @Description Удаляет курс вместе со всем содержимым. Только для преподавателей и администраторов.
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID курса"
// @Success 200 {object} response.Response "Курс удалён"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	if err := h.service.Remove(r.Context(), uid); err != nil {
		log.Error("failed to remove course", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("course removed", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "course removed successfully",
	}))
}
