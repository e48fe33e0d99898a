// Package list реализует HTTP-обработчик получения групп курса.
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

// Service описывает интерфейс бизнес-логики списка групп курса.
type Service interface {
	ListByCourse(ctx context.Context, courseUID string) ([]*models.Group, error)
}

// Handler управляет HTTP-запросами на получение групп курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Группы курса
// @Description Возвращает группы курса вместе с их составом.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID курса"
// @Success 200 {object} response.Response "Список групп"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{uid}/groups [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.group.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courseUID := chi.URLParam(r, "uid")

	groups, err := h.service.ListByCourse(r.Context(), courseUID)
	if err != nil {
		log.Error("failed to list groups", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("groups listed", slog.Int("count", len(groups)))
	render.JSON(w, r, response.StatusOKWithData(groups))
}
