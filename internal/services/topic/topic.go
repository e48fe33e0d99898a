// Package services содержит бизнес-логику управления темами курса.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/entercode/education-backend/internal/models"
)

// TopicRepository определяет методы хранилища для тем.
type TopicRepository interface {
	// CreateTopic сохраняет новую тему и возвращает её UID.
	CreateTopic(ctx context.Context, topic models.Topic) (string, error)
	// GetTopic возвращает тему по UID.
	GetTopic(ctx context.Context, uid string) (*models.Topic, error)
	// UpdateTopic сохраняет изменённую тему.
	UpdateTopic(ctx context.Context, topic *models.Topic) error
	// DeleteTopic удаляет тему вместе с задачами.
	DeleteTopic(ctx context.Context, uid string) error
	// ListTopicsByCourse возвращает темы курса.
	ListTopicsByCourse(ctx context.Context, courseUID string) ([]*models.Topic, error)
	// GetCourse возвращает курс по UID, нужен для проверки привязки.
	GetCourse(ctx context.Context, uid string) (*models.Course, error)
}

// TopicService реализует операции над темами.
type TopicService struct {
	repo TopicRepository
	log  *slog.Logger
}

// NewTopicService создает новый экземпляр TopicService.
func NewTopicService(repo TopicRepository, log *slog.Logger) *TopicService {
	return &TopicService{repo: repo, log: log}
}

// Create создает тему в рамках существующего курса.
// Несуществующий курс возвращает errs.ErrNotFound.
func (s *TopicService) Create(ctx context.Context, courseUID, name, description string, resources []string) (*models.Topic, error) {
	const op = "services.topic.Create"

	if _, err := s.repo.GetCourse(ctx, courseUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	topic := models.Topic{
		CourseUID:   courseUID,
		Name:        name,
		Description: description,
		Resources:   resources,
	}
	uid, err := s.repo.CreateTopic(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	topic.UID = uid

	s.log.Info("created new topic",
		slog.String("uid", uid), slog.String("course_uid", courseUID))
	return &topic, nil
}

// Read возвращает тему по UID.
func (s *TopicService) Read(ctx context.Context, uid string) (*models.Topic, error) {
	const op = "services.topic.Read"

	topic, err := s.repo.GetTopic(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return topic, nil
}

// Update применяет частичное обновление темы и возвращает её.
func (s *TopicService) Update(ctx context.Context, uid string, patch models.TopicPatch) (*models.Topic, error) {
	const op = "services.topic.Update"

	topic, err := s.repo.GetTopic(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	patch.Apply(topic)
	if err := s.repo.UpdateTopic(ctx, topic); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return topic, nil
}

// Remove удаляет тему вместе со всеми её задачами.
func (s *TopicService) Remove(ctx context.Context, uid string) error {
	const op = "services.topic.Remove"

	if err := s.repo.DeleteTopic(ctx, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("removed topic", slog.String("uid", uid))
	return nil
}

// ListByCourse возвращает темы курса.
func (s *TopicService) ListByCourse(ctx context.Context, courseUID string) ([]*models.Topic, error) {
	const op = "services.topic.ListByCourse"

	topics, err := s.repo.ListTopicsByCourse(ctx, courseUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return topics, nil
}
