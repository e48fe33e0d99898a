// Package read реализует HTTP-обработчик получения группы вместе с составом.
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

// Service описывает интерфейс бизнес-логики чтения группы.
type Service interface {
	Read(ctx context.Context, uid string) (*models.Group, error)
}

// Handler управляет HTTP-запросами на получение группы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить группу
// @Description Возвращает группу вместе со списками студентов и преподавателей.
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID группы"
// @Success 200 {object} response.Response "Группа с составом"
// @Failure 404 {object} response.ErrorResponse "Группа не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /groups/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.group.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	group, err := h.service.Read(r.Context(), uid)
	if err != nil {
		log.Error("failed to read group", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(group))
}
