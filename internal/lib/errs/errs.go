// Package errs определяет ошибки бизнес-уровня, общие для всех сервисов.
//
// Сервисы возвращают одну из этих ошибок (обёрнутую через fmt.Errorf с %w),
// а HTTP-слой единообразно преобразует их в статус-коды. Другие пакеты
// не должны вводить собственные ошибки для этих же ситуаций.
package errs

import "errors"

var (
	// ErrValidation некорректные входные данные или нарушение бизнес-правила
	ErrValidation = errors.New("validation failed")
	// ErrConflict нарушение уникальности (username, phone)
	ErrConflict = errors.New("already exists")
	// ErrUnauthorized отсутствующий, просроченный или неверный токен, неверный пароль
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden роль пользователя ниже требуемой
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound запрошенная сущность отсутствует
	ErrNotFound = errors.New("not found")
)
