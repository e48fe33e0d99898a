// Package throttle реализует ограничение попыток входа на Redis.
//
// Счётчик неуспешных попыток ведётся по username с TTL окна; кеширования
// бизнес-данных здесь нет, Redis хранит только состояние ограничителя.
package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/entercode/education-backend/internal/config"
)

// LoginLimiter ограничивает частоту неуспешных попыток входа по username.
type LoginLimiter struct {
	db       *redis.Client
	maxTries int64
	window   time.Duration
}

// NewLoginLimiter подключается к Redis и возвращает ограничитель:
// maxTries неуспешных попыток на окно window.
func NewLoginLimiter(ctx context.Context, cfg config.RedisConnection, maxTries int64, window time.Duration) (*LoginLimiter, error) {
	const op = "throttle.NewLoginLimiter"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		Username:     cfg.User,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LoginLimiter{db: db, maxTries: maxTries, window: window}, nil
}

func (l *LoginLimiter) key(username string) string {
	return "login_attempts:" + username
}

// Allow сообщает, не исчерпан ли лимит попыток для username.
func (l *LoginLimiter) Allow(ctx context.Context, username string) (bool, error) {
	const op = "throttle.Allow"
	count, err := l.db.Get(ctx, l.key(username)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return count < l.maxTries, nil
}

// RecordFailure учитывает неуспешную попытку входа.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) error {
	const op = "throttle.RecordFailure"
	count, err := l.db.Incr(ctx, l.key(username)).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 1 {
		if err := l.db.Expire(ctx, l.key(username), l.window).Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// Reset сбрасывает счётчик после успешного входа.
func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	const op = "throttle.Reset"
	if err := l.db.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает подключение к Redis.
func (l *LoginLimiter) Close() error {
	return l.db.Close()
}
