// Package services содержит бизнес-логику абонементов студентов:
// продление, списание занятий и проверку действительности.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/models"
	"github.com/entercode/education-backend/internal/rabbitmq"
)

// SubscriptionRepository определяет методы хранилища, нужные для абонементов.
type SubscriptionRepository interface {
	// GetUserByUsername возвращает пользователя по username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateUserSubscription сохраняет статус абонемента и остаток занятий.
	UpdateUserSubscription(ctx context.Context, uid string, status models.SubscriptionStatus, lessonsRemaining int) error
}

// EventPublisher публикует события платформы в брокер.
type EventPublisher interface {
	// Publish отправляет событие с заданным ключом маршрутизации.
	Publish(routingKey string, event rabbitmq.Event) error
}

// Info снимок состояния абонемента.
type Info struct {
	Status           models.SubscriptionStatus
	LessonsRemaining int
	Valid            bool
}

// SubscriptionService реализует бизнес-логику абонементов.
type SubscriptionService struct {
	repo      SubscriptionRepository
	publisher EventPublisher
	log       *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// Nil-издатель отключает публикацию событий.
func NewSubscriptionService(repo SubscriptionRepository, publisher EventPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Extend продлевает абонемент студента на lessons занятий и переводит его
// в статус paid. Нулевое или отрицательное число занятий и попытка продлить
// абонемент не-студенту возвращают errs.ErrValidation.
func (s *SubscriptionService) Extend(ctx context.Context, username string, lessons int) (*Info, error) {
	const op = "services.subscription.Extend"

	if lessons <= 0 {
		return nil, fmt.Errorf("%s: lessons must be positive: %w", op, errs.ErrValidation)
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.Role != models.RoleStudent {
		return nil, fmt.Errorf("%s: only students have subscriptions: %w", op, errs.ErrValidation)
	}

	remaining := user.LessonsRemaining + lessons
	if err := s.repo.UpdateUserSubscription(ctx, user.UID, models.SubscriptionPaid, remaining); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription extended",
		slog.String("username", username),
		slog.Int("lessons", lessons),
		slog.Int("remaining", remaining))
	s.publish(rabbitmq.RouteSubscriptionExtended, username,
		fmt.Sprintf("subscription extended by %d lessons, %d remaining", lessons, remaining))

	return &Info{Status: models.SubscriptionPaid, LessonsRemaining: remaining, Valid: true}, nil
}

// GetInfo возвращает текущее состояние абонемента пользователя.
// Для преподавателей и администраторов абонемент всегда действителен.
func (s *SubscriptionService) GetInfo(ctx context.Context, username string) (*Info, error) {
	const op = "services.subscription.GetInfo"

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Info{
		Status:           user.SubscriptionStatus,
		LessonsRemaining: user.LessonsRemaining,
		Valid:            user.HasValidSubscription(),
	}, nil
}

// UseLesson списывает одно занятие с абонемента студента. Последнее занятие
// переводит абонемент в статус expired. Списание без действующего абонемента
// возвращает errs.ErrValidation.
func (s *SubscriptionService) UseLesson(ctx context.Context, username string) (*Info, error) {
	const op = "services.subscription.UseLesson"

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.Role != models.RoleStudent {
		return nil, fmt.Errorf("%s: only students have subscriptions: %w", op, errs.ErrValidation)
	}
	if !user.HasValidSubscription() {
		return nil, fmt.Errorf("%s: no valid subscription: %w", op, errs.ErrValidation)
	}

	remaining := user.LessonsRemaining - 1
	status := models.SubscriptionPaid
	if remaining == 0 {
		status = models.SubscriptionExpired
	}
	if err := s.repo.UpdateUserSubscription(ctx, user.UID, status, remaining); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("lesson used",
		slog.String("username", username),
		slog.Int("remaining", remaining))
	if status == models.SubscriptionExpired {
		s.publish(rabbitmq.RouteSubscriptionExpired, username, "subscription expired, no lessons remaining")
	}

	return &Info{Status: status, LessonsRemaining: remaining, Valid: status == models.SubscriptionPaid}, nil
}

func (s *SubscriptionService) publish(routingKey, username, message string) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.Event{
		Username:  username,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish event",
			slog.String("routing_key", routingKey), slog.Any("err", err))
	}
}
