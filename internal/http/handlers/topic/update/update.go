// Package update реализует HTTP-обработчик частичного обновления темы.
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

// Request — частичное обновление темы, не заданные поля не меняются
type Request struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Resources   *[]string `json:"resources,omitempty"`
}

// Service описывает интерфейс бизнес-логики обновления темы.
type Service interface {
	Update(ctx context.Context, uid string, patch models.TopicPatch) (*models.Topic, error)
}

// Handler управляет HTTP-запросами на обновление темы.
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
// @Summary Обновить тему
// @Description Частично обновляет тему по UID. Только для преподавателей и администраторов.
// @Tags Topics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID темы"
// @Param request body Request true "Изменяемые поля темы"
// @Success 200 {object} response.Response "Обновлённая тема"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Тема не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /topics/{uid} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.topic.update"

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

	topic, err := h.service.Update(r.Context(), uid, models.TopicPatch{
		Name:        req.Name,
		Description: req.Description,
		Resources:   req.Resources,
	})
	if err != nil {
		log.Error("failed to update topic", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("topic updated", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(topic))
}
