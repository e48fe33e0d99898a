// Package updateprofile реализует HTTP-обработчик частичного обновления
// собственного профиля.
package updateprofile

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
	"github.com/entercode/education-backend/internal/models"
)

// Request — частичное обновление профиля, не заданные поля не меняются
type Request struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Surname   *string `json:"surname,omitempty" validate:"omitempty,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
}

// Service описывает интерфейс бизнес-логики обновления профиля.
type Service interface {
	UpdateProfile(ctx context.Context, username string, patch models.ProfilePatch) (*models.User, error)
}

// Handler управляет HTTP-запросами на обновление профиля.
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
// @Summary Обновить собственный профиль
// @Description Частично обновляет профиль: не заданные поля остаются без изменений.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Изменяемые поля профиля"
// @Success 200 {object} response.Response "Обновлённый профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Телефон уже занят"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /me [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.updateprofile"

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

	user, err := h.service.UpdateProfile(r.Context(), username, models.ProfilePatch{
		Name:      req.Name,
		Surname:   req.Surname,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	})
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("profile updated", slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(models.NewUserView(user)))
}
