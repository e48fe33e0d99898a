// Package login реализует HTTP-обработчик входа пользователя.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
	services "github.com/entercode/education-backend/internal/services/auth"
)

// Request — входные данные для входа
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, username, rawPassword string) (*models.User, *services.TokenPair, error)
}

// Handler управляет HTTP-запросами на вход.
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
// @Summary Войти в систему
// @Description Проверяет пароль и выдает новую пару токенов, отзывая предыдущую.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} response.Response "Пара токенов и роль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный пароль или превышен лимит попыток"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, pair, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("user logged in", slog.String("username", user.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"username":      user.Username,
		"role":          user.Role,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}))
}
