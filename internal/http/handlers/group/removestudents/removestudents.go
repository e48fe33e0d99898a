// Package removestudents реализует HTTP-обработчик исключения студентов
// из группы. Доступен преподавателям и выше.
package removestudents

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
)

// Request — входные данные для исключения студентов
type Request struct {
	Usernames []string `json:"usernames" validate:"required,min=1,dive,required"`
}

// Service описывает интерфейс бизнес-логики исключения студентов.
type Service interface {
	RemoveStudents(ctx context.Context, groupUID string, usernames []string) (int, error)
}

// Handler управляет HTTP-запросами на исключение студентов из группы.
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
// @Summary Исключить студентов из группы
// @Description Исключает студентов из группы по их username. Не состоящие в группе пропускаются.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID группы"
// @Param request body Request true "Список username студентов"
// @Success 200 {object} response.Response "Число исключённых"
// @Failure 400 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Группа не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /groups/{uid}/students [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.group.removestudents"

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

	removed, err := h.service.RemoveStudents(r.Context(), uid, req.Usernames)
	if err != nil {
		log.Error("failed to remove students", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("students removed from group",
		slog.String("group_uid", uid), slog.Int("removed", removed))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": removed,
	}))
}
