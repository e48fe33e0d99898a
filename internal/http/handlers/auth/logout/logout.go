// Package logout реализует HTTP-обработчик выхода из системы с отзывом
// пары токенов.
package logout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/entercode/education-backend/internal/http/middlewarectx"
	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
)

// Request — входные данные для выхода
type Request struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	Logout(ctx context.Context, username, refreshToken string) error
}

// Handler управляет HTTP-запросами на выход.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выйти из системы
// @Description Отзывает сохранённые токены. Переданный refresh-токен должен совпадать с действующим.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Действующий refresh-токен"
// @Success 200 {object} response.Response "Выход выполнен"
// @Failure 401 {object} response.ErrorResponse "Refresh-токен не совпадает"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Logout(r.Context(), username, req.RefreshToken); err != nil {
		log.Error("failed to logout", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("user logged out", slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "logged out successfully",
	}))
}
