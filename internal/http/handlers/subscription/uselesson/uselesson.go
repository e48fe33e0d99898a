// Package uselesson реализует HTTP-обработчик списания занятия
// с абонемента студента. Доступен преподавателям и выше: списание
// фиксирует проведённое занятие.
package uselesson

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

// Request — входные данные для списания занятия
type Request struct {
	Username string `json:"username" validate:"required"`
}

// Service описывает интерфейс бизнес-логики списания занятия.
type Service interface {
	UseLesson(ctx context.Context, username string) (*services.Info, error)
}

// Handler управляет HTTP-запросами на списание занятия.
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
// @Summary Списать занятие с абонемента студента
// @Description Списывает одно занятие у указанного студента. Последнее занятие переводит абонемент в статус expired. Доступен преподавателям и выше.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Студент, у которого списывается занятие"
// @Success 200 {object} response.Response "Состояние абонемента после списания"
// @Failure 400 {object} response.ErrorResponse "Нет действующего абонемента"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/use [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.uselesson"

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

	info, err := h.service.UseLesson(r.Context(), req.Username)
	if err != nil {
		log.Error("failed to use lesson", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("lesson used",
		slog.String("username", req.Username),
		slog.Int("remaining", info.LessonsRemaining))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":            info.Status,
		"lessons_remaining": info.LessonsRemaining,
		"valid":             info.Valid,
	}))
}
