package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entercode/education-backend/internal/models"
)

func marshalStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

// CreateTopic сохраняет новую тему и возвращает её UID.
func (s *Storage) CreateTopic(ctx context.Context, topic models.Topic) (string, error) {
	const op = "storage.CreateTopic"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	resources, err := marshalStrings(topic.Resources)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newUID string
	query := `INSERT INTO topics (course_uid, name, description, resources)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		topic.CourseUID, topic.Name, topic.Description, resources).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetTopic возвращает тему по UID.
func (s *Storage) GetTopic(ctx context.Context, uid string) (*models.Topic, error) {
	const op = "storage.GetTopic"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	t := &models.Topic{}
	var resources []byte
	query := `SELECT uid, course_uid, name, description, resources FROM topics WHERE uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, uid).Scan(
		&t.UID, &t.CourseUID, &t.Name, &t.Description, &resources); err != nil {
		return nil, wrapReadErr(op, err)
	}
	if err := json.Unmarshal(resources, &t.Resources); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// UpdateTopic сохраняет изменённые поля темы.
func (s *Storage) UpdateTopic(ctx context.Context, topic *models.Topic) error {
	const op = "storage.UpdateTopic"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	resources, err := marshalStrings(topic.Resources)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE topics
			  SET name = $1,
			      description = $2,
			      resources = $3
			  WHERE uid = $4`
	_, err = s.DB.ExecContext(ctx, query, topic.Name, topic.Description, resources, topic.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteTopic удаляет тему вместе с её задачами (каскадно).
func (s *Storage) DeleteTopic(ctx context.Context, uid string) error {
	const op = "storage.DeleteTopic"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx, `DELETE FROM topics WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListTopicsByCourse возвращает темы курса.
func (s *Storage) ListTopicsByCourse(ctx context.Context, courseUID string) ([]*models.Topic, error) {
	const op = "storage.ListTopicsByCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, course_uid, name, description, resources
			  FROM topics
			  WHERE course_uid = $1
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, courseUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Topic
	for rows.Next() {
		t := &models.Topic{}
		var resources []byte
		if err = rows.Scan(&t.UID, &t.CourseUID, &t.Name, &t.Description, &resources); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = json.Unmarshal(resources, &t.Resources); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
