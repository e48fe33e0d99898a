// Package profile реализует HTTP-обработчик получения профиля пользователя
// по его username.
package profile

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

// Service описывает интерфейс бизнес-логики получения профиля.
type Service interface {
	GetProfile(ctx context.Context, username string) (*models.User, error)
}

// Handler управляет HTTP-запросами на получение профиля пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить профиль пользователя
// @Description Возвращает профиль пользователя по username.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username пользователя"
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	if username == "" {
		log.Error("username is empty in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("username is required"))
		return
	}

	user, err := h.service.GetProfile(r.Context(), username)
	if err != nil {
		log.Error("failed to get profile", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(models.NewUserView(user)))
}
