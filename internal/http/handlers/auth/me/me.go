// Package me реализует HTTP-обработчик получения собственного профиля
// по access-токену.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/entercode/education-backend/internal/http/middlewarectx"
	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики получения профиля.
type Service interface {
	GetCurrentUser(ctx context.Context, username string) (*models.User, error)
}

// Handler управляет HTTP-запросами на получение собственного профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить собственный профиль
// @Description Возвращает профиль пользователя, которому принадлежит access-токен.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), username)
	if err != nil {
		log.Error("failed to get current user", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(models.NewUserView(user)))
}
