// Package middlewarectx содержит HTTP middleware платформы: проверку
// access-токена из заголовка Authorization, ролевой доступ и ограничение
// частоты запросов.
//
// JWTMiddleware проверяет токен через сервис аутентификации и кладёт в
// контекст username, роль и UID пользователя для обработчиков ниже по цепочке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// UserUID — ключ для UID пользователя в контексте
	UserUID Key = "user_uid"
)

// Identifier описывает интерфейс сервиса для проверки access-токена.
type Identifier interface {
	// Identify разбирает токен и возвращает его владельца.
	Identify(ctx context.Context, token string) (*models.User, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден и учётная запись активна, добавляет username, роль и UID
// в контекст запроса, иначе возвращает HTTP 401 Unauthorized.
func JWTMiddleware(authService Identifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.Identify(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), User, user.Username)
			ctx = context.WithValue(ctx, Role, user.Role)
			ctx = context.WithValue(ctx, UserUID, user.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole возвращает middleware, пропускающий только пользователей
// с ролью не ниже minRole. Должен стоять после JWTMiddleware.
func RequireRole(minRole models.Role, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			role, ok := r.Context().Value(Role).(models.Role)
			if !ok {
				log.Error("role not found in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if !role.AtLeast(minRole) {
				log.Error("insufficient role",
					slog.String("role", string(role)),
					slog.String("required", string(minRole)))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
