// Package deleteaccount реализует HTTP-обработчик удаления собственной
// учётной записи.
package deleteaccount

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/entercode/education-backend/internal/http/middlewarectx"
	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики удаления учётной записи.
type Service interface {
	DeleteAccount(ctx context.Context, username string) error
}

// Handler управляет HTTP-запросами на удаление учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить собственную учётную запись
// @Description Удаляет учётную запись вместе с результатами и членством в группах.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Учётная запись удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /me [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.deleteaccount"

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

	if err := h.service.DeleteAccount(r.Context(), username); err != nil {
		log.Error("failed to delete account", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("account deleted", slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "account deleted successfully",
	}))
}
