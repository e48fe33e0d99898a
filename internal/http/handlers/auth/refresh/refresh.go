// Package refresh реализует HTTP-обработчик обновления access-токена
// по действующему refresh-токену.
package refresh

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
)

// Request — входные данные для обновления токена
type Request struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Service описывает интерфейс бизнес-логики обновления токена.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// Handler управляет HTTP-запросами на обновление токена.
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
// @Summary Обновить access-токен
// @Description Выдает новый access-токен по refresh-токену. Refresh-токен не ротируется.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Refresh-токен"
// @Success 200 {object} response.Response "Новый access-токен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неизвестный refresh-токен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

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

	access, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		log.Error("failed to refresh token", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("access token refreshed")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"access_token":  access,
		"refresh_token": req.RefreshToken,
	}))
}
