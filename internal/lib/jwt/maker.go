package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/entercode/education-backend/internal/lib/errs"
)

// CustomClaims описывает пользовательские данные, хранящиеся в токене.
type CustomClaims struct {
	Username             string `json:"username"` // Уникальный handle пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims (ExpiresAt, IssuedAt и пр.)
}

// GenerateToken создает токен с заданным username, подписывая его секретным ключом.
//
// Срок действия — абсолютный момент в UTC, now + tokenTTL.
func (j *MakerImpl) GenerateToken(username string) (string, error) {
	const op = "jwt.GenerateToken"
	now := time.Now().UTC()
	claims := CustomClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken разбирает токен, проверяет подпись и срок жизни.
//
// Любая причина отказа — битая структура, чужая подпись, истёкший срок —
// сворачивается в errs.ErrUnauthorized, чтобы вызывающий код единообразно
// отвечал 401 без утечки деталей.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrUnauthorized)
	}
	return claims, nil
}
