// Package changepassword реализует HTTP-обработчик смены пароля.
package changepassword

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

// Request — входные данные для смены пароля
type Request struct {
	OldPassword    string `json:"old_password" validate:"required"`
	NewPassword    string `json:"new_password" validate:"required,min=6"`
	RepeatPassword string `json:"repeat_password" validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, username, oldPassword, newPassword, repeatPassword string) error
}

// Handler управляет HTTP-запросами на смену пароля.
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
// @Summary Сменить пароль
// @Description Меняет пароль после проверки старого. Новый пароль должен совпадать с повтором.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Старый и новый пароли"
// @Success 200 {object} response.Response "Пароль изменён"
// @Failure 400 {object} response.ErrorResponse "Пароли не совпадают"
// @Failure 401 {object} response.ErrorResponse "Неверный старый пароль"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /me/password [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.changepassword"

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

	if err := h.service.ChangePassword(r.Context(), username, req.OldPassword, req.NewPassword, req.RepeatPassword); err != nil {
		log.Error("failed to change password", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("password changed", slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "password changed successfully",
	}))
}
