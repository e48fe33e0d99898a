// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и управления учётной записью пользователя.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/lib/jwt"
	"github.com/entercode/education-backend/internal/lib/password"
	"github.com/entercode/education-backend/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по username или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByRefreshToken возвращает пользователя по действующему refresh-токену.
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)

	// UpdateUserTokens сохраняет пару токенов пользователя, nil очищает значение.
	UpdateUserTokens(ctx context.Context, uid string, accessToken, refreshToken *string) error

	// UpdateUserAccessToken сохраняет новый access-токен, не трогая refresh.
	UpdateUserAccessToken(ctx context.Context, uid string, accessToken string) error

	// UpdateUserPassword сохраняет новый хэш пароля.
	UpdateUserPassword(ctx context.Context, uid string, passwordHash string) error

	// UpdateUserProfile сохраняет изменённые поля профиля.
	UpdateUserProfile(ctx context.Context, user *models.User) error

	// DeleteUser удаляет учётную запись.
	DeleteUser(ctx context.Context, uid string) error
}

// LoginThrottle ограничивает частоту неуспешных попыток входа.
type LoginThrottle interface {
	// Allow сообщает, не исчерпан ли лимит попыток для username.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure учитывает неуспешную попытку входа.
	RecordFailure(ctx context.Context, username string) error
	// Reset сбрасывает счётчик после успешного входа.
	Reset(ctx context.Context, username string) error
}

// RegisterRequest данные для регистрации нового пользователя.
type RegisterRequest struct {
	Name           string
	Surname        string
	Username       string
	Password       string
	RepeatPassword string
	Phone          *string
	Role           models.Role
}

// TokenPair пара токенов, выдаваемая при регистрации и входе.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService отвечает за регистрацию, вход, обновление токенов
// и операции над собственной учётной записью.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	limiter  LoginThrottle
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService. Nil-ограничитель
// отключает троттлинг входа.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, limiter LoginThrottle, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		limiter:  limiter,
		log:      log,
	}
}

// Register создает нового пользователя, хэширует пароль и выдает пару токенов.
// Несовпадение паролей возвращает errs.ErrValidation, занятый username
// или телефон — errs.ErrConflict.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, *TokenPair, error) {
	const op = "services.auth.Register"

	if req.Password != req.RepeatPassword {
		return nil, nil, fmt.Errorf("%s: passwords do not match: %w", op, errs.ErrValidation)
	}
	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, nil, fmt.Errorf("%s: unknown role %q: %w", op, req.Role, errs.ErrValidation)
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Name:               req.Name,
		Surname:            req.Surname,
		Username:           req.Username,
		Role:               role,
		Status:             models.StatusActive,
		Phone:              req.Phone,
		PasswordHash:       hashed,
		SubscriptionStatus: models.SubscriptionUnpaid,
	}

	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UID = uid

	pair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)))
	return &user, pair, nil
}

// Login проверяет пароль пользователя и выдает новую пару токенов.
// Неизвестный username возвращает errs.ErrNotFound, неверный пароль
// или исчерпанный лимит попыток — errs.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, *TokenPair, error) {
	const op = "services.auth.Login"

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, username)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if !allowed {
			return nil, nil, fmt.Errorf("%s: too many login attempts: %w", op, errs.ErrUnauthorized)
		}
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if s.limiter != nil {
			if terr := s.limiter.RecordFailure(ctx, username); terr != nil {
				s.log.Warn("failed to record login attempt",
					slog.String("username", username), slog.Any("err", terr))
			}
		}
		return nil, nil, fmt.Errorf("%s: invalid credentials: %w", op, errs.ErrUnauthorized)
	}

	if s.limiter != nil {
		if terr := s.limiter.Reset(ctx, username); terr != nil {
			s.log.Warn("failed to reset login attempts",
				slog.String("username", username), slog.Any("err", terr))
		}
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, pair, nil
}

// issueTokens выпускает access-токен и новый refresh-токен и сохраняет их.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.jwtMaker.GenerateToken(user.Username)
	if err != nil {
		return nil, err
	}
	refresh := uuid.NewString()

	if err := s.users.UpdateUserTokens(ctx, user.UID, &access, &refresh); err != nil {
		return nil, err
	}
	user.AccessToken = &access
	user.RefreshToken = &refresh
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh выдает новый access-токен по действующему refresh-токену.
// Refresh-токен при этом не ротируется. Неизвестный токен возвращает
// errs.ErrUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "services.auth.Refresh"

	user, err := s.users.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", fmt.Errorf("%s: unknown refresh token: %w", op, errs.ErrUnauthorized)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	access, err := s.jwtMaker.GenerateToken(user.Username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdateUserAccessToken(ctx, user.UID, access); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return access, nil
}

// Identify разбирает access-токен и возвращает его владельца.
// Любая проблема с токеном или неактивная учётная запись
// возвращают errs.ErrUnauthorized.
func (s *AuthService) Identify(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.Identify"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("%s: inactive account: %w", op, errs.ErrUnauthorized)
	}
	return user, nil
}

// GetCurrentUser возвращает пользователя по username из токена.
func (s *AuthService) GetCurrentUser(ctx context.Context, username string) (*models.User, error) {
	const op = "services.auth.GetCurrentUser"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ChangePassword меняет пароль пользователя после проверки старого.
// Несовпадение нового пароля с повтором возвращает errs.ErrValidation,
// неверный старый пароль — errs.ErrUnauthorized.
func (s *AuthService) ChangePassword(ctx context.Context, username, oldPassword, newPassword, repeatPassword string) error {
	const op = "services.auth.ChangePassword"

	if newPassword != repeatPassword {
		return fmt.Errorf("%s: passwords do not match: %w", op, errs.ErrValidation)
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return fmt.Errorf("%s: invalid credentials: %w", op, errs.ErrUnauthorized)
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdateUserPassword(ctx, user.UID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("password changed", slog.String("username", username))
	return nil
}

// UpdateProfile применяет частичное обновление профиля и возвращает
// обновлённого пользователя. Занятый телефон возвращает errs.ErrConflict.
func (s *AuthService) UpdateProfile(ctx context.Context, username string, patch models.ProfilePatch) (*models.User, error) {
	const op = "services.auth.UpdateProfile"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	patch.Apply(user)
	if err := s.users.UpdateUserProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Logout отзывает пару токенов пользователя. Переданный refresh-токен
// должен совпадать с сохранённым, иначе errs.ErrUnauthorized.
func (s *AuthService) Logout(ctx context.Context, username, refreshToken string) error {
	const op = "services.auth.Logout"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return fmt.Errorf("%s: refresh token mismatch: %w", op, errs.ErrUnauthorized)
	}
	if err := s.users.UpdateUserTokens(ctx, user.UID, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged out", slog.String("username", username))
	return nil
}

// DeleteAccount удаляет учётную запись пользователя.
func (s *AuthService) DeleteAccount(ctx context.Context, username string) error {
	const op = "services.auth.DeleteAccount"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.DeleteUser(ctx, user.UID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("account deleted", slog.String("username", username))
	return nil
}
