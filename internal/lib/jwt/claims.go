// Package jwt реализует выпуск и проверку подписанных access-токенов.
//
// Maker определяет интерфейс для создания и разбора токенов с username.
// MakerImpl — конкретная реализация на HS256 с секретным ключом и сроком жизни.
package jwt

import (
	"time"
)

// DefaultTTL срок жизни access-токена, если при создании Maker он не задан.
const DefaultTTL = 60 * time.Minute

// Maker описывает интерфейс для генерации и парсинга access-токенов.
type Maker interface {
	// GenerateToken выпускает подписанный токен для username
	GenerateToken(username string) (string, error)
	// ParseToken проверяет подпись и срок жизни, возвращает *CustomClaims
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl. Ключ читается из конфига
// один раз при старте процесса; смена ключа делает недействительными все
// выпущенные токены. При нулевом ttl используется DefaultTTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
