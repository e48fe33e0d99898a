// Package create реализует HTTP-обработчик создания группы в рамках курса.
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

// Request — входные данные для создания группы
type Request struct {
	CourseUID   string `json:"course_uid" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// Service описывает интерфейс бизнес-логики создания группы.
type Service interface {
	Create(ctx context.Context, courseUID, name, description string) (*models.Group, error)
}

// Handler управляет HTTP-запросами на создание группы.
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
// @Summary Создать группу
// @Description Создает группу в рамках существующего курса. Только для преподавателей и администраторов.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Данные новой группы"
// @Success 200 {object} response.Response "Созданная группа"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /groups [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.group.create"

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

	group, err := h.service.Create(r.Context(), req.CourseUID, req.Name, req.Description)
	if err != nil {
		log.Error("failed to create group", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("group created", slog.String("uid", group.UID))
	render.JSON(w, r, response.StatusOKWithData(group))
}
