// Package list реализует HTTP-обработчик получения списка всех пользователей.
// Доступен только администраторам.
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

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	List(ctx context.Context) ([]*models.User, error)
}

// Handler управляет HTTP-запросами на получение списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список всех пользователей
// @Description Возвращает всех пользователей платформы. Только для администраторов.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список пользователей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("users listed", slog.Int("count", len(users)))
	render.JSON(w, r, response.StatusOKWithData(models.NewUserViews(users)))
}
