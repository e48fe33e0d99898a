// Package extend реализует HTTP-обработчик продления абонемента студента.
// Доступен преподавателям и выше.
package extend

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
	services "github.com/entercode/education-backend/internal/services/subscription"
)

// Request — входные данные для продления абонемента
type Request struct {
	Username string `json:"username" validate:"required"`
	Lessons  int    `json:"lessons" validate:"required,gt=0"`
}

// Service описывает интерфейс бизнес-логики продления абонемента.
type Service interface {
	Extend(ctx context.Context, username string, lessons int) (*services.Info, error)
}

// Handler управляет HTTP-запросами на продление абонемента.
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
// @Summary Продлить абонемент студента
// @Description Добавляет занятия к абонементу и переводит его в статус paid. Доступен преподавателям и выше.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Студент и число занятий"
// @Success 200 {object} response.Response "Состояние абонемента"
// @Failure 400 {object} response.ErrorResponse "Недопустимое число занятий или не студент"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/extend [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.extend"

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

	info, err := h.service.Extend(r.Context(), req.Username, req.Lessons)
	if err != nil {
		log.Error("failed to extend subscription", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("subscription extended",
		slog.String("username", req.Username),
		slog.Int("lessons", req.Lessons))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":            info.Status,
		"lessons_remaining": info.LessonsRemaining,
		"valid":             info.Valid,
	}))
}
