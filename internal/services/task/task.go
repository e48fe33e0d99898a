// Package services содержит бизнес-логику задач: CRUD, отправку решений
// студентами и их проверку преподавателями.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/models"
	"github.com/entercode/education-backend/internal/rabbitmq"
)

// TaskRepository определяет методы хранилища для задач и результатов.
type TaskRepository interface {
	// CreateTask сохраняет новую задачу и возвращает её UID.
	CreateTask(ctx context.Context, task models.Task) (string, error)
	// GetTask возвращает задачу по UID.
	GetTask(ctx context.Context, uid string) (*models.Task, error)
	// UpdateTask сохраняет изменённую задачу.
	UpdateTask(ctx context.Context, task *models.Task) error
	// DeleteTask удаляет задачу вместе с результатами.
	DeleteTask(ctx context.Context, uid string) error
	// ListTasksByTopic возвращает задачи темы.
	ListTasksByTopic(ctx context.Context, topicUID string) ([]*models.Task, error)
	// GetTopic возвращает тему по UID, нужен для проверки привязки.
	GetTopic(ctx context.Context, uid string) (*models.Topic, error)
	// UpsertTaskResult сохраняет или перезаписывает результат студента.
	UpsertTaskResult(ctx context.Context, result models.TaskResult) error
	// GetTaskResult возвращает результат студента по задаче.
	GetTaskResult(ctx context.Context, taskUID, userUID string) (*models.TaskResult, error)
	// SetTaskResultReview выставляет оценку и статус после проверки.
	SetTaskResultReview(ctx context.Context, taskUID, userUID string, score float64, status models.TaskStatus) error
	// GetUserByUsername возвращает пользователя по username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// EventPublisher публикует события платформы в брокер.
type EventPublisher interface {
	// Publish отправляет событие с заданным ключом маршрутизации.
	Publish(routingKey string, event rabbitmq.Event) error
}

// TaskWithResult задача вместе с результатом конкретного студента.
// Result равен nil, если попыток не было.
type TaskWithResult struct {
	Task   *models.Task
	Result *models.TaskResult
}

// Статусы, которые преподаватель может выставить при проверке.
var reviewStatuses = map[models.TaskStatus]struct{}{
	models.TaskCorrect:     {},
	models.TaskRejected:    {},
	models.TaskWrongAnswer: {},
}

// TaskService реализует операции над задачами и решениями.
type TaskService struct {
	repo      TaskRepository
	publisher EventPublisher
	log       *slog.Logger
}

// NewTaskService создает новый экземпляр TaskService.
// Nil-издатель отключает публикацию событий.
func NewTaskService(repo TaskRepository, publisher EventPublisher, log *slog.Logger) *TaskService {
	return &TaskService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Create создает задачу в рамках существующей темы.
// Несуществующая тема возвращает errs.ErrNotFound.
func (s *TaskService) Create(ctx context.Context, topicUID, condition string, attachments []string) (*models.Task, error) {
	const op = "services.task.Create"

	if _, err := s.repo.GetTopic(ctx, topicUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	task := models.Task{
		TopicUID:    topicUID,
		Condition:   condition,
		Attachments: attachments,
	}
	uid, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	task.UID = uid

	s.log.Info("created new task",
		slog.String("uid", uid), slog.String("topic_uid", topicUID))
	return &task, nil
}

// Read возвращает задачу вместе с результатом пользователя.
// Отсутствие результата не является ошибкой: студент ещё не брался за задачу.
func (s *TaskService) Read(ctx context.Context, taskUID, userUID string) (*TaskWithResult, error) {
	const op = "services.task.Read"

	task, err := s.repo.GetTask(ctx, taskUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := s.repo.GetTaskResult(ctx, taskUID, userUID)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &TaskWithResult{Task: task, Result: result}, nil
}

// Update применяет частичное обновление задачи и возвращает её.
func (s *TaskService) Update(ctx context.Context, uid string, patch models.TaskPatch) (*models.Task, error) {
	const op = "services.task.Update"

	task, err := s.repo.GetTask(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	patch.Apply(task)
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return task, nil
}

// Remove удаляет задачу вместе с результатами студентов.
func (s *TaskService) Remove(ctx context.Context, uid string) error {
	const op = "services.task.Remove"

	if err := s.repo.DeleteTask(ctx, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("removed task", slog.String("uid", uid))
	return nil
}

// ListByTopic возвращает задачи темы.
func (s *TaskService) ListByTopic(ctx context.Context, topicUID string) ([]*models.Task, error) {
	const op = "services.task.ListByTopic"

	tasks, err := s.repo.ListTasksByTopic(ctx, topicUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tasks, nil
}

// Submit принимает решение студента и переводит его на проверку.
// Требуется действующий абонемент, иначе errs.ErrForbidden.
// Повторная отправка перезаписывает предыдущее решение.
func (s *TaskService) Submit(ctx context.Context, taskUID, username, solution string, attachments []string) (*models.TaskResult, error) {
	const op = "services.task.Submit"

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.HasValidSubscription() {
		return nil, fmt.Errorf("%s: subscription is not valid: %w", op, errs.ErrForbidden)
	}
	if _, err := s.repo.GetTask(ctx, taskUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := models.TaskResult{
		TaskUID:     taskUID,
		UserUID:     user.UID,
		Status:      models.TaskUnderReview,
		Solution:    solution,
		Attachments: attachments,
	}
	if err := s.repo.UpsertTaskResult(ctx, result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("solution submitted",
		slog.String("task_uid", taskUID), slog.String("username", username))
	s.publish(rabbitmq.RouteTaskSubmitted, username,
		fmt.Sprintf("solution for task %s submitted for review", taskUID))

	return &result, nil
}

// Review выставляет оценку и итоговый статус решения студента.
// Допустимы только статусы correct, rejected и wrong_answer.
// Отсутствующее решение возвращает errs.ErrNotFound.
func (s *TaskService) Review(ctx context.Context, taskUID, username string, score float64, status models.TaskStatus) (*models.TaskResult, error) {
	const op = "services.task.Review"

	if _, ok := reviewStatuses[status]; !ok {
		return nil, fmt.Errorf("%s: status %q is not a review verdict: %w", op, status, errs.ErrValidation)
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SetTaskResultReview(ctx, taskUID, user.UID, score, status); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.repo.GetTaskResult(ctx, taskUID, user.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("solution reviewed",
		slog.String("task_uid", taskUID),
		slog.String("username", username),
		slog.String("status", string(status)))
	return result, nil
}

func (s *TaskService) publish(routingKey, username, message string) {
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
