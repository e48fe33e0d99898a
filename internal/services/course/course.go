// Package services содержит бизнес-логику управления курсами.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/entercode/education-backend/internal/models"
)

// CourseRepository определяет методы хранилища для курсов.
type CourseRepository interface {
	// CreateCourse сохраняет новый курс и возвращает его UID.
	CreateCourse(ctx context.Context, course models.Course) (string, error)
	// GetCourse возвращает курс по UID.
	GetCourse(ctx context.Context, uid string) (*models.Course, error)
	// UpdateCourse сохраняет изменённый курс.
	UpdateCourse(ctx context.Context, course *models.Course) error
	// DeleteCourse удаляет курс вместе с группами, темами и задачами.
	DeleteCourse(ctx context.Context, uid string) error
	// ListCourses возвращает все курсы.
	ListCourses(ctx context.Context) ([]*models.Course, error)
	// GetCourseStats возвращает агрегированные показатели курса.
	GetCourseStats(ctx context.Context, uid string) (*models.CourseStats, error)
	// CountUserCorrectTasks считает решённые пользователем задачи курса.
	CountUserCorrectTasks(ctx context.Context, courseUID, userUID string) (int, error)
}

// Progress успеваемость пользователя по курсу.
type Progress struct {
	TotalTasks   int
	CorrectTasks int
}

// CourseService реализует операции над курсами.
type CourseService struct {
	repo CourseRepository
	log  *slog.Logger
}

// NewCourseService создает новый экземпляр CourseService.
func NewCourseService(repo CourseRepository, log *slog.Logger) *CourseService {
	return &CourseService{repo: repo, log: log}
}

// Create создает новый курс и возвращает его с заполненным UID.
func (s *CourseService) Create(ctx context.Context, name, description string) (*models.Course, error) {
	const op = "services.course.Create"

	course := models.Course{Name: name, Description: description}
	uid, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	course.UID = uid

	s.log.Info("created new course", slog.String("uid", uid), slog.String("name", name))
	return &course, nil
}

// Read возвращает курс по UID.
func (s *CourseService) Read(ctx context.Context, uid string) (*models.Course, error) {
	const op = "services.course.Read"

	course, err := s.repo.GetCourse(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return course, nil
}

// Update применяет частичное обновление курса и возвращает его.
func (s *CourseService) Update(ctx context.Context, uid string, patch models.CoursePatch) (*models.Course, error) {
	const op = "services.course.Update"

	course, err := s.repo.GetCourse(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	patch.Apply(course)
	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return course, nil
}

// Remove удаляет курс вместе со всем содержимым.
func (s *CourseService) Remove(ctx context.Context, uid string) error {
	const op = "services.course.Remove"

	if err := s.repo.DeleteCourse(ctx, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("removed course", slog.String("uid", uid))
	return nil
}

// List возвращает все курсы платформы.
func (s *CourseService) List(ctx context.Context) ([]*models.Course, error) {
	const op = "services.course.List"

	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return courses, nil
}

// Stats возвращает агрегированные показатели курса.
func (s *CourseService) Stats(ctx context.Context, uid string) (*models.CourseStats, error) {
	const op = "services.course.Stats"

	stats, err := s.repo.GetCourseStats(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

// UserProgress возвращает успеваемость пользователя по курсу: сколько задач
// курса решено верно из общего числа.
func (s *CourseService) UserProgress(ctx context.Context, courseUID, userUID string) (*Progress, error) {
	const op = "services.course.UserProgress"

	stats, err := s.repo.GetCourseStats(ctx, courseUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	correct, err := s.repo.CountUserCorrectTasks(ctx, courseUID, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Progress{TotalTasks: stats.TotalTasks, CorrectTasks: correct}, nil
}
