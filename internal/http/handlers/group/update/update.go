// Package update реализует HTTP-обработчик частичного обновления группы.
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

// Request — частичное обновление группы, не заданные поля не меняются
type Request struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// Service описывает интерфейс бизнес-логики обновления группы.
type Service interface {
	Update(ctx context.Context, uid string, patch models.GroupPatch) (*models.Group, error)
}

// Handler управляет HTTP-запросами на обновление группы.
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
// @Summary Обновить группу
// @Description Частично обновляет группу по UID. Только для преподавателей и администраторов.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID группы"
// @Param request body Request true "Изменяемые поля группы"
// @Success 200 {object} response.Response "Обновлённая группа"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Группа не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /groups/{uid} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.group.update"

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

	group, err := h.service.Update(r.Context(), uid, models.GroupPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		log.Error("failed to update group", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("group updated", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(group))
}
