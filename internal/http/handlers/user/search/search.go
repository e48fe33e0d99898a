// Package search реализует HTTP-обработчик поиска пользователей
// по имени, фамилии или username. Доступен преподавателям и выше.
package search

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

// Service описывает интерфейс бизнес-логики поиска пользователей.
type Service interface {
	Search(ctx context.Context, query string) ([]*models.User, error)
}

// Handler управляет HTTP-запросами на поиск пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Найти пользователей
// @Description Ищет пользователей по подстроке в имени, фамилии или username.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Поисковый запрос"
// @Success 200 {object} response.Response "Найденные пользователи"
// @Failure 400 {object} response.ErrorResponse "Пустой запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query().Get("q")

	users, err := h.service.Search(r.Context(), query)
	if err != nil {
		log.Error("failed to search users", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("users found", slog.Int("count", len(users)))
	render.JSON(w, r, response.StatusOKWithData(models.NewUserViews(users)))
}
