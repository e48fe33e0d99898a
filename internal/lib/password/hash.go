// Package password реализует функции для безопасного хеширования и проверки паролей.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash принимает пароль пользователя и возвращает его bcrypt-хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt-хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
// Некорректный формат хэша также приводит к ошибке, не к панике.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
