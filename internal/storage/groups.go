package storage

import (
	"context"
	"fmt"

	"github.com/entercode/education-backend/internal/models"
)

// CreateGroup сохраняет новую группу и возвращает её UID.
func (s *Storage) CreateGroup(ctx context.Context, group models.Group) (string, error) {
	const op = "storage.CreateGroup"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO groups (course_uid, name, description)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		group.CourseUID, group.Name, group.Description).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetGroup возвращает группу по UID вместе со списками участников.
func (s *Storage) GetGroup(ctx context.Context, uid string) (*models.Group, error) {
	const op = "storage.GetGroup"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	g := &models.Group{}
	query := `SELECT uid, course_uid, name, description FROM groups WHERE uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, uid).Scan(
		&g.UID, &g.CourseUID, &g.Name, &g.Description); err != nil {
		return nil, wrapReadErr(op, err)
	}

	var err error
	if g.Students, err = s.groupMembers(ctx, "group_students", uid); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if g.Teachers, err = s.groupMembers(ctx, "group_teachers", uid); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return g, nil
}

func (s *Storage) groupMembers(ctx context.Context, table, groupUID string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		fmt.Sprintf(`SELECT user_uid FROM %s WHERE group_uid = $1 ORDER BY user_uid`, table), groupUID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var uid string
		if err = rows.Scan(&uid); err != nil {
			return nil, err
		}
		result = append(result, uid)
	}
	return result, rows.Err()
}

// UpdateGroup сохраняет изменённые поля группы.
func (s *Storage) UpdateGroup(ctx context.Context, group *models.Group) error {
	const op = "storage.UpdateGroup"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE groups
			  SET name = $1,
			      description = $2
			  WHERE uid = $3`
	_, err := s.DB.ExecContext(ctx, query, group.Name, group.Description, group.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteGroup удаляет группу вместе со списками участников (каскадно).
func (s *Storage) DeleteGroup(ctx context.Context, uid string) error {
	const op = "storage.DeleteGroup"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx, `DELETE FROM groups WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddGroupStudents добавляет студентов в группу, повторное добавление игнорируется.
// Возвращает количество реально добавленных.
func (s *Storage) AddGroupStudents(ctx context.Context, groupUID string, userUIDs []string) (int, error) {
	return s.addGroupMembers(ctx, "storage.AddGroupStudents", "group_students", groupUID, userUIDs)
}

// AddGroupTeachers добавляет преподавателей в группу, повторное добавление игнорируется.
// Возвращает количество реально добавленных.
func (s *Storage) AddGroupTeachers(ctx context.Context, groupUID string, userUIDs []string) (int, error) {
	return s.addGroupMembers(ctx, "storage.AddGroupTeachers", "group_teachers", groupUID, userUIDs)
}

func (s *Storage) addGroupMembers(ctx context.Context, op, table, groupUID string, userUIDs []string) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	added := 0
	query := fmt.Sprintf(`INSERT INTO %s (group_uid, user_uid)
			  VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`, table)
	for _, userUID := range userUIDs {
		res, err := s.DB.ExecContext(ctx, query, groupUID, userUID)
		if err != nil {
			return added, fmt.Errorf("%s: %w", op, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}

// RemoveGroupStudents исключает студентов из группы.
// Возвращает количество реально исключённых.
func (s *Storage) RemoveGroupStudents(ctx context.Context, groupUID string, userUIDs []string) (int, error) {
	return s.removeGroupMembers(ctx, "storage.RemoveGroupStudents", "group_students", groupUID, userUIDs)
}

// RemoveGroupTeachers исключает преподавателей из группы.
// Возвращает количество реально исключённых.
func (s *Storage) RemoveGroupTeachers(ctx context.Context, groupUID string, userUIDs []string) (int, error) {
	return s.removeGroupMembers(ctx, "storage.RemoveGroupTeachers", "group_teachers", groupUID, userUIDs)
}

func (s *Storage) removeGroupMembers(ctx context.Context, op, table, groupUID string, userUIDs []string) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	removed := 0
	query := fmt.Sprintf(`DELETE FROM %s WHERE group_uid = $1 AND user_uid = $2`, table)
	for _, userUID := range userUIDs {
		res, err := s.DB.ExecContext(ctx, query, groupUID, userUID)
		if err != nil {
			return removed, fmt.Errorf("%s: %w", op, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			removed++
		}
	}
	return removed, nil
}

// ListGroupsByCourse возвращает группы курса без списков участников.
func (s *Storage) ListGroupsByCourse(ctx context.Context, courseUID string) ([]*models.Group, error) {
	const op = "storage.ListGroupsByCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, course_uid, name, description
			  FROM groups
			  WHERE course_uid = $1
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, courseUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Group
	for rows.Next() {
		g := &models.Group{}
		if err = rows.Scan(&g.UID, &g.CourseUID, &g.Name, &g.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
