// Package create реализует HTTP-обработчик создания темы курса.
// Доступен преподавателям и выше.
package create

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
)

// Request — входные данные для создания темы
type Request struct {
	CourseUID   string   `json:"course_uid" validate:"required,uuid"`
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Resources   []string `json:"resources,omitempty"`
}

// Service описывает интерфейс бизнес-логики создания темы.
type Service interface {
	Create(ctx context.Context, courseUID, name, description string, resources []string) (*models.Topic, error)
}

// Handler управляет HTTP-запросами на создание темы.
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
// @Summary Создать тему
// @Description Создает тему в рамках существующего курса. Только для преподавателей и администраторов.
// @Tags Topics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Данные новой темы"
// @Success 200 {object} response.Response "Созданная тема"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /topics [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.topic.create"

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

	topic, err := h.service.Create(r.Context(), req.CourseUID, req.Name, req.Description, req.Resources)
	if err != nil {
		log.Error("failed to create topic", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("topic created", slog.String("uid", topic.UID))
	render.JSON(w, r, response.StatusOKWithData(topic))
}
