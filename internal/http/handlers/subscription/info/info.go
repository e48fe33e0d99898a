// Package info реализует HTTP-обработчик получения состояния абонемента.
// Свой абонемент видит каждый, чужой — только преподаватели и выше.
package info

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/entercode/education-backend/internal/http/middlewarectx"
	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
	services "github.com/entercode/education-backend/internal/services/subscription"
)

// Service описывает интерфейс бизнес-логики состояния абонемента.
type Service interface {
	GetInfo(ctx context.Context, username string) (*services.Info, error)
}

// Handler управляет HTTP-запросами на получение состояния абонемента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Состояние абонемента
// @Description Возвращает статус, остаток занятий и признак действительности абонемента. Параметр username позволяет преподавателям и администраторам смотреть чужой абонемент.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param username query string false "Username студента (только для преподавателей и выше)"
// @Success 200 {object} response.Response "Состояние абонемента"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужой абонемент доступен только преподавателям"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/info [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.info"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if target := r.URL.Query().Get("username"); target != "" && target != username {
		role, _ := r.Context().Value(middlewarectx.Role).(models.Role)
		if !role.AtLeast(models.RoleTeacher) {
			log.Warn("attempt to read another user's subscription",
				slog.String("username", username), slog.String("target", target))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
			return
		}
		username = target
	}

	info, err := h.service.GetInfo(r.Context(), username)
	if err != nil {
		log.Error("failed to get subscription info", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":            info.Status,
		"lessons_remaining": info.LessonsRemaining,
		"valid":             info.Valid,
	}))
}
