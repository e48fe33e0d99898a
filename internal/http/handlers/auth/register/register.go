// Package register реализует HTTP-обработчик регистрации нового пользователя.
//
// Handler принимает JSON с данными учётной записи, валидирует их, вызывает
// сервис аутентификации и возвращает профиль вместе с парой токенов.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/entercode/education-backend/internal/http/response"
	"github.com/entercode/education-backend/internal/lib/sl"
	"github.com/entercode/education-backend/internal/models"
	services "github.com/entercode/education-backend/internal/services/auth"
)

// Request — входные данные для регистрации
type Request struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Surname        string  `json:"surname" validate:"required,max=100"`
	Username       string  `json:"username" validate:"required,handle,min=2,max=33"`
	Password       string  `json:"password" validate:"required,min=6"`
	RepeatPassword string  `json:"repeat_password" validate:"required,min=6"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Role           string  `json:"role,omitempty" validate:"omitempty,oneof=student teacher admin"`
}

// handleRe допустимый формат username: латиница, цифры и подчёркивание.
var handleRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func validHandle(fl validator.FieldLevel) bool {
	return handleRe.MatchString(fl.Field().String())
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, *services.TokenPair, error)
}

// Handler управляет HTTP-запросами на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	validate := validator.New()
	_ = validate.RegisterValidation("handle", validHandle)
	return &Handler{
		log:      log,
		service:  service,
		validate: validate,
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать нового пользователя
// @Description Создает учётную запись и возвращает пару токенов. Роль по умолчанию — student.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные новой учётной записи"
// @Success 200 {object} response.Response "Профиль и пара токенов"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пароли не совпадают"
// @Failure 409 {object} response.ErrorResponse "Username или телефон уже заняты"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	user, pair, err := h.service.Register(r.Context(), services.RegisterRequest{
		Name:           req.Name,
		Surname:        req.Surname,
		Username:       req.Username,
		Password:       req.Password,
		RepeatPassword: req.RepeatPassword,
		Phone:          req.Phone,
		Role:           models.Role(req.Role),
	})
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("user registered", slog.String("username", user.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":           user.UID,
		"username":      user.Username,
		"role":          user.Role,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}))
}
