// Package read реализует HTTP-обработчик получения задачи вместе
// с результатом текущего пользователя.
package read

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
	services "github.com/entercode/education-backend/internal/services/task"
)

// Service описывает интерфейс бизнес-логики чтения задачи.
type Service interface {
	Read(ctx context.Context, taskUID, userUID string) (*services.TaskWithResult, error)
}

// Handler управляет HTTP-запросами на получение задачи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить задачу
// @Description Возвращает задачу и результат текущего пользователя, если попытки были.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID задачи"
// @Success 200 {object} response.Response "Задача с результатом"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Задача не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /tasks/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.Read(r.Context(), uid, userUID)
	if err != nil {
		log.Error("failed to read task", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"task":   res.Task,
		"result": res.Result,
	}))
}
