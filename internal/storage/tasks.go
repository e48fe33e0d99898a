package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/models"
)

// CreateTask сохраняет новую задачу и возвращает её UID.
func (s *Storage) CreateTask(ctx context.Context, task models.Task) (string, error) {
	const op = "storage.CreateTask"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	attachments, err := marshalStrings(task.Attachments)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newUID string
	query := `INSERT INTO tasks (topic_uid, condition, attachments)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		task.TopicUID, task.Condition, attachments).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetTask возвращает задачу по UID.
func (s *Storage) GetTask(ctx context.Context, uid string) (*models.Task, error) {
	const op = "storage.GetTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	t := &models.Task{}
	var attachments []byte
	query := `SELECT uid, topic_uid, condition, attachments FROM tasks WHERE uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, uid).Scan(
		&t.UID, &t.TopicUID, &t.Condition, &attachments); err != nil {
		return nil, wrapReadErr(op, err)
	}
	if err := json.Unmarshal(attachments, &t.Attachments); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// UpdateTask сохраняет изменённые поля задачи.
func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	const op = "storage.UpdateTask"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	attachments, err := marshalStrings(task.Attachments)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE tasks
			  SET condition = $1,
			      attachments = $2
			  WHERE uid = $3`
	_, err = s.DB.ExecContext(ctx, query, task.Condition, attachments, task.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteTask удаляет задачу вместе с результатами (каскадно).
func (s *Storage) DeleteTask(ctx context.Context, uid string) error {
	const op = "storage.DeleteTask"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListTasksByTopic возвращает задачи темы.
func (s *Storage) ListTasksByTopic(ctx context.Context, topicUID string) ([]*models.Task, error) {
	const op = "storage.ListTasksByTopic"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, topic_uid, condition, attachments
			  FROM tasks
			  WHERE topic_uid = $1
			  ORDER BY uid`
	rows, err := s.DB.QueryContext(ctx, query, topicUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Task
	for rows.Next() {
		t := &models.Task{}
		var attachments []byte
		if err = rows.Scan(&t.UID, &t.TopicUID, &t.Condition, &attachments); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = json.Unmarshal(attachments, &t.Attachments); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertTaskResult сохраняет решение студента: первая попытка создаёт запись,
// повторная перезаписывает решение и статус.
func (s *Storage) UpsertTaskResult(ctx context.Context, result models.TaskResult) error {
	const op = "storage.UpsertTaskResult"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	attachments, err := marshalStrings(result.Attachments)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO task_results (task_uid, user_uid, score, status, solution, attachments)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (task_uid, user_uid) DO UPDATE
			  SET score = EXCLUDED.score,
			      status = EXCLUDED.status,
			      solution = EXCLUDED.solution,
			      attachments = EXCLUDED.attachments`
	_, err = s.DB.ExecContext(ctx, query,
		result.TaskUID, result.UserUID, result.Score, result.Status, result.Solution, attachments)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetTaskResult возвращает результат студента по задаче.
func (s *Storage) GetTaskResult(ctx context.Context, taskUID, userUID string) (*models.TaskResult, error) {
	const op = "storage.GetTaskResult"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	r := &models.TaskResult{}
	var attachments []byte
	query := `SELECT task_uid, user_uid, score, status, solution, attachments
			  FROM task_results
			  WHERE task_uid = $1 AND user_uid = $2`
	if err := s.DB.QueryRowContext(ctx, query, taskUID, userUID).Scan(
		&r.TaskUID, &r.UserUID, &r.Score, &r.Status, &r.Solution, &attachments); err != nil {
		return nil, wrapReadErr(op, err)
	}
	if err := json.Unmarshal(attachments, &r.Attachments); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// SetTaskResultReview выставляет оценку и статус решению студента.
func (s *Storage) SetTaskResultReview(ctx context.Context, taskUID, userUID string, score float64, status models.TaskStatus) error {
	const op = "storage.SetTaskResultReview"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE task_results
			  SET score = $1,
			      status = $2
			  WHERE task_uid = $3 AND user_uid = $4`
	res, err := s.DB.ExecContext(ctx, query, score, status, taskUID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}
