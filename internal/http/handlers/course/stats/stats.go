// Package stats реализует HTTP-обработчик получения агрегированных
// показателей курса и успеваемости текущего пользователя.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/entercode/education-backend/internal/http/middlewarectx"
	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
	services "github.com/entercode/education-backend/internal/services/course"
)

// Service описывает интерфейс бизнес-логики статистики курса.
type Service interface {
	Stats(ctx context.Context, uid string) (*models.CourseStats, error)
	UserProgress(ctx context.Context, courseUID, userUID string) (*services.Progress, error)
}

// Handler управляет HTTP-запросами на получение статистики курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статистика курса
// @Description Возвращает показатели курса и успеваемость текущего пользователя.
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID курса"
// @Success 200 {object} response.Response "Статистика курса"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{uid}/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	stats, err := h.service.Stats(r.Context(), uid)
	if err != nil {
		log.Error("failed to get course stats", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	data := map[string]any{
		"total_groups":   stats.TotalGroups,
		"total_topics":   stats.TotalTopics,
		"total_tasks":    stats.TotalTasks,
		"total_students": stats.TotalStudents,
	}

	if userUID, ok := r.Context().Value(middlewarectx.UserUID).(string); ok && userUID != "" {
		progress, err := h.service.UserProgress(r.Context(), uid, userUID)
		if err != nil {
			log.Error("failed to get user progress", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		data["progress"] = map[string]any{
			"total_tasks":   progress.TotalTasks,
			"correct_tasks": progress.CorrectTasks,
		}
	}

	render.JSON(w, r, response.StatusOKWithData(data))
}
