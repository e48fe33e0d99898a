// Package services содержит бизнес-логику управления группами курса
// и их составом.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/models"
)

// GroupRepository определяет методы хранилища для групп.
type GroupRepository interface {
	// CreateGroup сохраняет новую группу и возвращает её UID.
	CreateGroup(ctx context.Context, group models.Group) (string, error)
	// GetGroup возвращает группу вместе с составом.
	GetGroup(ctx context.Context, uid string) (*models.Group, error)
	// UpdateGroup сохраняет изменённую группу.
	UpdateGroup(ctx context.Context, group *models.Group) error
	// DeleteGroup удаляет группу и её состав.
	DeleteGroup(ctx context.Context, uid string) error
	// AddGroupStudents добавляет студентов, возвращает число добавленных.
	AddGroupStudents(ctx context.Context, groupUID string, userUIDs []string) (int, error)
	// AddGroupTeachers добавляет преподавателей, возвращает число добавленных.
	AddGroupTeachers(ctx context.Context, groupUID string, userUIDs []string) (int, error)
	// RemoveGroupStudents исключает студентов, возвращает число исключённых.
	RemoveGroupStudents(ctx context.Context, groupUID string, userUIDs []string) (int, error)
	// RemoveGroupTeachers исключает преподавателей, возвращает число исключённых.
	RemoveGroupTeachers(ctx context.Context, groupUID string, userUIDs []string) (int, error)
	// ListGroupsByCourse возвращает группы курса.
	ListGroupsByCourse(ctx context.Context, courseUID string) ([]*models.Group, error)
	// GetCourse возвращает курс по UID, нужен для проверки привязки.
	GetCourse(ctx context.Context, uid string) (*models.Course, error)
	// GetUserByUsername возвращает пользователя по username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// GroupService реализует операции над группами.
type GroupService struct {
	repo GroupRepository
	log  *slog.Logger
}

// NewGroupService создает новый экземпляр GroupService.
func NewGroupService(repo GroupRepository, log *slog.Logger) *GroupService {
	return &GroupService{repo: repo, log: log}
}

// Create создает группу в рамках существующего курса.
// Несуществующий курс возвращает errs.ErrNotFound.
func (s *GroupService) Create(ctx context.Context, courseUID, name, description string) (*models.Group, error) {
	const op = "services.group.Create"

	if _, err := s.repo.GetCourse(ctx, courseUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	group := models.Group{CourseUID: courseUID, Name: name, Description: description}
	uid, err := s.repo.CreateGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	group.UID = uid

	s.log.Info("created new group",
		slog.String("uid", uid), slog.String("course_uid", courseUID))
	return &group, nil
}

// Read возвращает группу вместе с составом.
func (s *GroupService) Read(ctx context.Context, uid string) (*models.Group, error) {
	const op = "services.group.Read"

	group, err := s.repo.GetGroup(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return group, nil
}

// Update применяет частичное обновление группы и возвращает её.
func (s *GroupService) Update(ctx context.Context, uid string, patch models.GroupPatch) (*models.Group, error) {
	const op = "services.group.Update"

	group, err := s.repo.GetGroup(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	patch.Apply(group)
	if err := s.repo.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return group, nil
}

// Remove удаляет группу вместе с составом.
func (s *GroupService) Remove(ctx context.Context, uid string) error {
	const op = "services.group.Remove"

	if err := s.repo.DeleteGroup(ctx, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("removed group", slog.String("uid", uid))
	return nil
}

// AddStudents добавляет студентов в группу по их username.
// Каждый должен существовать и иметь роль student, иначе errs.ErrValidation.
// Уже состоящие в группе пропускаются.
func (s *GroupService) AddStudents(ctx context.Context, groupUID string, usernames []string) (int, error) {
	const op = "services.group.AddStudents"

	uids, err := s.resolveMembers(ctx, usernames, models.RoleStudent)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	added, err := s.repo.AddGroupStudents(ctx, groupUID, uids)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("added students to group",
		slog.String("group_uid", groupUID), slog.Int("added", added))
	return added, nil
}

// AddTeachers добавляет преподавателей в группу по их username.
// Каждый должен существовать и иметь роль teacher или выше.
func (s *GroupService) AddTeachers(ctx context.Context, groupUID string, usernames []string) (int, error) {
	const op = "services.group.AddTeachers"

	uids, err := s.resolveMembers(ctx, usernames, models.RoleTeacher)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	added, err := s.repo.AddGroupTeachers(ctx, groupUID, uids)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("added teachers to group",
		slog.String("group_uid", groupUID), slog.Int("added", added))
	return added, nil
}

// RemoveStudents исключает студентов из группы по их username.
// Неизвестный username возвращает errs.ErrValidation, не состоящие
// в группе пропускаются.
func (s *GroupService) RemoveStudents(ctx context.Context, groupUID string, usernames []string) (int, error) {
	const op = "services.group.RemoveStudents"

	uids, err := s.resolveUsernames(ctx, usernames)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	removed, err := s.repo.RemoveGroupStudents(ctx, groupUID, uids)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("removed students from group",
		slog.String("group_uid", groupUID), slog.Int("removed", removed))
	return removed, nil
}

// RemoveTeachers исключает преподавателей из группы по их username.
func (s *GroupService) RemoveTeachers(ctx context.Context, groupUID string, usernames []string) (int, error) {
	const op = "services.group.RemoveTeachers"

	uids, err := s.resolveUsernames(ctx, usernames)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	removed, err := s.repo.RemoveGroupTeachers(ctx, groupUID, uids)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("removed teachers from group",
		slog.String("group_uid", groupUID), slog.Int("removed", removed))
	return removed, nil
}

// resolveMembers проверяет каждого пользователя и собирает их UID.
// Для студентов требуется точная роль student, для преподавателей
// достаточно роли teacher и выше.
func (s *GroupService) resolveMembers(ctx context.Context, usernames []string, wantRole models.Role) ([]string, error) {
	if len(usernames) == 0 {
		return nil, fmt.Errorf("empty member list: %w", errs.ErrValidation)
	}
	uids := make([]string, 0, len(usernames))
	for _, username := range usernames {
		user, err := s.repo.GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, fmt.Errorf("user %q not found: %w", username, errs.ErrValidation)
			}
			return nil, err
		}
		switch wantRole {
		case models.RoleStudent:
			if user.Role != models.RoleStudent {
				return nil, fmt.Errorf("user %q is not a student: %w", username, errs.ErrValidation)
			}
		default:
			if !user.Role.AtLeast(models.RoleTeacher) {
				return nil, fmt.Errorf("user %q is not a teacher: %w", username, errs.ErrValidation)
			}
		}
		uids = append(uids, user.UID)
	}
	return uids, nil
}

// resolveUsernames собирает UID существующих пользователей без проверки
// роли: при исключении из группы роль значения не имеет.
func (s *GroupService) resolveUsernames(ctx context.Context, usernames []string) ([]string, error) {
	if len(usernames) == 0 {
		return nil, fmt.Errorf("empty member list: %w", errs.ErrValidation)
	}
	uids := make([]string, 0, len(usernames))
	for _, username := range usernames {
		user, err := s.repo.GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, fmt.Errorf("user %q not found: %w", username, errs.ErrValidation)
			}
			return nil, err
		}
		uids = append(uids, user.UID)
	}
	return uids, nil
}

// ListByCourse возвращает группы курса.
func (s *GroupService) ListByCourse(ctx context.Context, courseUID string) ([]*models.Group, error) {
	const op = "services.group.ListByCourse"

	groups, err := s.repo.ListGroupsByCourse(ctx, courseUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return groups, nil
}
