package storage

import (
	"context"
	"fmt"

	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/models"
)

const userColumns = `uid, name, surname, username, role, status, phone, avatar_url, bio,
			      password_hash, access_token, refresh_token, subscription_status, lessons_remaining`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.UID, &u.Name, &u.Surname, &u.Username, &u.Role, &u.Status,
		&u.Phone, &u.AvatarURL, &u.Bio, &u.PasswordHash, &u.AccessToken,
		&u.RefreshToken, &u.SubscriptionStatus, &u.LessonsRemaining); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Занятые username или phone приводят к errs.ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (name, surname, username, role, status, phone, avatar_url, bio,
			      password_hash, access_token, refresh_token, subscription_status, lessons_remaining)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Surname, user.Username, user.Role, user.Status, user.Phone,
		user.AvatarURL, user.Bio, user.PasswordHash, user.AccessToken, user.RefreshToken,
		user.SubscriptionStatus, user.LessonsRemaining).Scan(&newUID); err != nil {
		return "", wrapWriteErr(op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, wrapReadErr(op, err)
	}
	return u, nil
}

// GetUserByRefreshToken возвращает пользователя, владеющего refresh-токеном.
func (s *Storage) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	const op = "storage.GetUserByRefreshToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE refresh_token = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, refreshToken))
	if err != nil {
		return nil, wrapReadErr(op, err)
	}
	return u, nil
}

// UpdateUserTokens перезаписывает пару токенов пользователя.
// nil очищает соответствующее поле (выход из системы).
func (s *Storage) UpdateUserTokens(ctx context.Context, uid string, accessToken, refreshToken *string) error {
	const op = "storage.UpdateUserTokens"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET access_token = $1,
			      refresh_token = $2
			  WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, accessToken, refreshToken, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// UpdateUserAccessToken перезаписывает только access-токен (refresh не ротируется).
func (s *Storage) UpdateUserAccessToken(ctx context.Context, uid string, accessToken string) error {
	const op = "storage.UpdateUserAccessToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET access_token = $1
			  WHERE uid = $2`
	_, err := s.DB.ExecContext(ctx, query, accessToken, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateUserPassword перезаписывает хэш пароля.
func (s *Storage) UpdateUserPassword(ctx context.Context, uid string, passwordHash string) error {
	const op = "storage.UpdateUserPassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1
			  WHERE uid = $2`
	_, err := s.DB.ExecContext(ctx, query, passwordHash, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateUserProfile сохраняет изменяемые поля профиля.
// Занятый phone приводит к errs.ErrConflict.
func (s *Storage) UpdateUserProfile(ctx context.Context, user *models.User) error {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = $1,
			      surname = $2,
			      phone = $3,
			      avatar_url = $4,
			      bio = $5
			  WHERE uid = $6`
	_, err := s.DB.ExecContext(ctx, query,
		user.Name, user.Surname, user.Phone, user.AvatarURL, user.Bio, user.UID)
	if err != nil {
		return wrapWriteErr(op, err)
	}
	return nil
}

// UpdateUserSubscription перезаписывает статус абонемента и остаток занятий.
func (s *Storage) UpdateUserSubscription(ctx context.Context, uid string, status models.SubscriptionStatus, lessonsRemaining int) error {
	const op = "storage.UpdateUserSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_status = $1,
			      lessons_remaining = $2
			  WHERE uid = $3`
	_, err := s.DB.ExecContext(ctx, query, status, lessonsRemaining, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteUser безвозвратно удаляет учётную запись.
func (s *Storage) DeleteUser(ctx context.Context, uid string) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsers возвращает всех пользователей, отсортированных по username.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY username`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SearchUsers ищет пользователей по подстроке в имени, фамилии или username
// без учёта регистра. Пустой запрос возвращает всех.
func (s *Storage) SearchUsers(ctx context.Context, q string) ([]*models.User, error) {
	const op = "storage.SearchUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if q == "" {
		return s.ListUsers(ctx)
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE name ILIKE '%' || $1 || '%'
			     OR surname ILIKE '%' || $1 || '%'
			     OR username ILIKE '%' || $1 || '%'
			  ORDER BY username`
	rows, err := s.DB.QueryContext(ctx, query, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
