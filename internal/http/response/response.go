// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате и
// единственный отображает ошибки бизнес-уровня в HTTP-статусы.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/entercode/education-backend/internal/lib/errs"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// StatusCode отображает ошибку бизнес-уровня в HTTP-статус.
// Неопознанная ошибка считается внутренней.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RenderError записывает HTTP-статус по ошибке бизнес-уровня и JSON с её
// описанием. Детали внутренних ошибок клиенту не раскрываются.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)
	msg := "internal error"
	switch code {
	case http.StatusBadRequest:
		msg = "invalid request"
	case http.StatusUnauthorized:
		msg = "unauthorized"
	case http.StatusForbidden:
		msg = "forbidden"
	case http.StatusNotFound:
		msg = "not found"
	case http.StatusConflict:
		msg = "already exists"
	}
	w.WriteHeader(code)
	render.JSON(w, r, Error(msg))
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errlist validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errlist {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "handle":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only letters, numbers and underscore", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has unsupported value", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
