package storage

import (
	"context"
	"fmt"

	"github.com/entercode/education-backend/internal/models"
)

// CreateCourse сохраняет новый курс и возвращает его UID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (string, error) {
	const op = "storage.CreateCourse"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO courses (name, description)
			  VALUES ($1, $2)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query, course.Name, course.Description).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetCourse возвращает курс по UID.
func (s *Storage) GetCourse(ctx context.Context, uid string) (*models.Course, error) {
	const op = "storage.GetCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	c := &models.Course{}
	query := `SELECT uid, name, description FROM courses WHERE uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, uid).Scan(&c.UID, &c.Name, &c.Description); err != nil {
		return nil, wrapReadErr(op, err)
	}
	return c, nil
}

// UpdateCourse сохраняет изменённые поля курса.
func (s *Storage) UpdateCourse(ctx context.Context, course *models.Course) error {
	const op = "storage.UpdateCourse"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses
			  SET name = $1,
			      description = $2
			  WHERE uid = $3`
	_, err := s.DB.ExecContext(ctx, query, course.Name, course.Description, course.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteCourse удаляет курс вместе с группами, темами и задачами (каскадно).
func (s *Storage) DeleteCourse(ctx context.Context, uid string) error {
	const op = "storage.DeleteCourse"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx, `DELETE FROM courses WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListCourses возвращает все курсы, отсортированные по названию.
func (s *Storage) ListCourses(ctx context.Context) ([]*models.Course, error) {
	const op = "storage.ListCourses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT uid, name, description FROM courses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Course
	for rows.Next() {
		c := &models.Course{}
		if err = rows.Scan(&c.UID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetCourseStats агрегирует показатели по курсу одним запросом.
func (s *Storage) GetCourseStats(ctx context.Context, uid string) (*models.CourseStats, error) {
	const op = "storage.GetCourseStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	stats := &models.CourseStats{}
	query := `SELECT
			      (SELECT COUNT(*) FROM groups WHERE course_uid = $1),
			      (SELECT COUNT(*) FROM topics WHERE course_uid = $1),
			      (SELECT COUNT(*) FROM tasks t
			          JOIN topics tp ON tp.uid = t.topic_uid
			          WHERE tp.course_uid = $1),
			      (SELECT COUNT(DISTINCT gs.user_uid) FROM group_students gs
			          JOIN groups g ON g.uid = gs.group_uid
			          WHERE g.course_uid = $1)`
	if err := s.DB.QueryRowContext(ctx, query, uid).Scan(
		&stats.TotalGroups, &stats.TotalTopics, &stats.TotalTasks, &stats.TotalStudents); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

// CountUserCorrectTasks считает задачи курса, решённые студентом верно.
func (s *Storage) CountUserCorrectTasks(ctx context.Context, courseUID, userUID string) (int, error) {
	const op = "storage.CountUserCorrectTasks"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM task_results tr
			  JOIN tasks t ON t.uid = tr.task_uid
			  JOIN topics tp ON tp.uid = t.topic_uid
			  WHERE tp.course_uid = $1 AND tr.user_uid = $2 AND tr.status = 'correct'`
	if err := s.DB.QueryRowContext(ctx, query, courseUID, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
