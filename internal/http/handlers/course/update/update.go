// Package update реализует HTTP-обработчик частичного обновления курса.
// Доступен преподавателям и выше.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
)

// Request — частичное обновление курса, не заданные поля не меняются
type Request struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// Service описывает интерфейс бизнес-логики обновления курса.
type Service interface {
	Update(ctx context.Context, uid string, patch models.CoursePatch) (*models.Course, error)
}

// Handler управляет HTTP-запросами на обновление курса.
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
// @Summary Обновить курс
// @Description Частично обновляет курс по UID. Только для преподавателей и администраторов.
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID курса"
// @Param request body Request true "Изменяемые поля курса"
// @Success 200 {object} response.Response "Обновлённый курс"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{uid} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

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

	course, err := h.service.Update(r.Context(), uid, models.CoursePatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		log.Error("failed to update course", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("course updated", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(course))
}
