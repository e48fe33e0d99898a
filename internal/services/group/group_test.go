package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/models"
)

type GroupRepoMock struct {
	mock.Mock
}

func (m *GroupRepoMock) CreateGroup(ctx context.Context, group models.Group) (string, error) {
	args := m.Called(ctx, group)
	return args.String(0), args.Error(1)
}

func (m *GroupRepoMock) GetGroup(ctx context.Context, uid string) (*models.Group, error) {
	args := m.Called(ctx, uid)
	group, _ := args.Get(0).(*models.Group)
	return group, args.Error(1)
}

func (m *GroupRepoMock) UpdateGroup(ctx context.Context, group *models.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *GroupRepoMock) DeleteGroup(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *GroupRepoMock) AddGroupStudents(ctx context.Context, groupUID string, userUIDs []string) (int, error) {
	args := m.Called(ctx, groupUID, userUIDs)
	return args.Int(0), args.Error(1)
}

func (m *GroupRepoMock) AddGroupTeachers(ctx context.Context, groupUID string, userUIDs []string) (int, error) {
	args := m.Called(ctx, groupUID, userUIDs)
	return args.Int(0), args.Error(1)
}

func (m *GroupRepoMock) RemoveGroupStudents(ctx context.Context, groupUID string, userUIDs []string) (int, error) {
	args := m.Called(ctx, groupUID, userUIDs)
	return args.Int(0), args.Error(1)
}

func (m *GroupRepoMock) RemoveGroupTeachers(ctx context.Context, groupUID string, userUIDs []string) (int, error) {
	args := m.Called(ctx, groupUID, userUIDs)
	return args.Int(0), args.Error(1)
}

func (m *GroupRepoMock) ListGroupsByCourse(ctx context.Context, courseUID string) ([]*models.Group, error) {
	args := m.Called(ctx, courseUID)
	groups, _ := args.Get(0).([]*models.Group)
	return groups, args.Error(1)
}

func (m *GroupRepoMock) GetCourse(ctx context.Context, uid string) (*models.Course, error) {
	args := m.Called(ctx, uid)
	course, _ := args.Get(0).(*models.Course)
	return course, args.Error(1)
}

func (m *GroupRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGroupService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		repo.On("GetCourse", ctx, "course-1").
			Return(&models.Course{UID: "course-1", Name: "Algebra"}, nil).Once()
		repo.On("CreateGroup", ctx, models.Group{
			CourseUID:   "course-1",
			Name:        "Group A",
			Description: "Morning group",
		}).Return("group-1", nil).Once()

		group, err := service.Create(ctx, "course-1", "Group A", "Morning group")

		assert.NoError(t, err)
		assert.Equal(t, "group-1", group.UID)
		assert.Equal(t, "course-1", group.CourseUID)
		repo.AssertExpectations(t)
	})

	t.Run("unknown course", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		repo.On("GetCourse", ctx, "missing").Return(nil, errs.ErrNotFound).Once()

		_, err := service.Create(ctx, "missing", "Group A", "")

		assert.ErrorIs(t, err, errs.ErrNotFound)
		repo.AssertNotCalled(t, "CreateGroup", mock.Anything, mock.Anything)
	})
}

func TestGroupService_AddStudents(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		usernames []string
		users     map[string]*models.User
		wantUIDs  []string
		wantErr   error
	}{
		{
			name:      "all students resolved",
			usernames: []string{"student1", "student2"},
			users: map[string]*models.User{
				"student1": {UID: "uid-1", Username: "student1", Role: models.RoleStudent},
				"student2": {UID: "uid-2", Username: "student2", Role: models.RoleStudent},
			},
			wantUIDs: []string{"uid-1", "uid-2"},
		},
		{
			name:      "empty member list",
			usernames: nil,
			wantErr:   errs.ErrValidation,
		},
		{
			name:      "unknown user",
			usernames: []string{"ghost"},
			users:     map[string]*models.User{},
			wantErr:   errs.ErrValidation,
		},
		{
			name:      "teacher is not a student",
			usernames: []string{"teacher1"},
			users: map[string]*models.User{
				"teacher1": {UID: "uid-3", Username: "teacher1", Role: models.RoleTeacher},
			},
			wantErr: errs.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(GroupRepoMock)
			service := NewGroupService(repo, discardLogger())

			for _, username := range tt.usernames {
				if user, ok := tt.users[username]; ok {
					repo.On("GetUserByUsername", ctx, username).Return(user, nil).Once()
				} else {
					repo.On("GetUserByUsername", ctx, username).Return(nil, errs.ErrNotFound).Once()
				}
			}
			if tt.wantErr == nil {
				repo.On("AddGroupStudents", ctx, "group-1", tt.wantUIDs).
					Return(len(tt.wantUIDs), nil).Once()
			}

			added, err := service.AddStudents(ctx, "group-1", tt.usernames)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "AddGroupStudents", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, len(tt.wantUIDs), added)
			repo.AssertExpectations(t)
		})
	}
}

func TestGroupService_AddTeachers(t *testing.T) {
	ctx := context.Background()

	t.Run("admin counts as teacher", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		repo.On("GetUserByUsername", ctx, "admin1").
			Return(&models.User{UID: "uid-9", Username: "admin1", Role: models.RoleAdmin}, nil).Once()
		repo.On("AddGroupTeachers", ctx, "group-1", []string{"uid-9"}).Return(1, nil).Once()

		added, err := service.AddTeachers(ctx, "group-1", []string{"admin1"})

		assert.NoError(t, err)
		assert.Equal(t, 1, added)
		repo.AssertExpectations(t)
	})

	t.Run("student rejected", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		repo.On("GetUserByUsername", ctx, "student1").
			Return(&models.User{UID: "uid-1", Username: "student1", Role: models.RoleStudent}, nil).Once()

		_, err := service.AddTeachers(ctx, "group-1", []string{"student1"})

		assert.ErrorIs(t, err, errs.ErrValidation)
		repo.AssertNotCalled(t, "AddGroupTeachers", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGroupService_RemoveStudents(t *testing.T) {
	ctx := context.Background()

	t.Run("removes resolved members", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		repo.On("GetUserByUsername", ctx, "student1").
			Return(&models.User{UID: "uid-1", Username: "student1", Role: models.RoleStudent}, nil).Once()
		repo.On("GetUserByUsername", ctx, "student2").
			Return(&models.User{UID: "uid-2", Username: "student2", Role: models.RoleStudent}, nil).Once()
		repo.On("RemoveGroupStudents", ctx, "group-1", []string{"uid-1", "uid-2"}).Return(2, nil).Once()

		removed, err := service.RemoveStudents(ctx, "group-1", []string{"student1", "student2"})

		assert.NoError(t, err)
		assert.Equal(t, 2, removed)
		repo.AssertExpectations(t)
	})

	t.Run("empty list rejected", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		_, err := service.RemoveStudents(ctx, "group-1", nil)

		assert.ErrorIs(t, err, errs.ErrValidation)
		repo.AssertNotCalled(t, "RemoveGroupStudents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		repo.On("GetUserByUsername", ctx, "ghost").
			Return(nil, errs.ErrNotFound).Once()

		_, err := service.RemoveStudents(ctx, "group-1", []string{"ghost"})

		assert.ErrorIs(t, err, errs.ErrValidation)
		repo.AssertNotCalled(t, "RemoveGroupStudents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not in group counts as zero", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		repo.On("GetUserByUsername", ctx, "student1").
			Return(&models.User{UID: "uid-1", Username: "student1", Role: models.RoleStudent}, nil).Once()
		repo.On("RemoveGroupStudents", ctx, "group-1", []string{"uid-1"}).Return(0, nil).Once()

		removed, err := service.RemoveStudents(ctx, "group-1", []string{"student1"})

		assert.NoError(t, err)
		assert.Equal(t, 0, removed)
		repo.AssertExpectations(t)
	})
}

func TestGroupService_RemoveTeachers(t *testing.T) {
	ctx := context.Background()

	t.Run("removes by username without role check", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		repo.On("GetUserByUsername", ctx, "teacher1").
			Return(&models.User{UID: "uid-5", Username: "teacher1", Role: models.RoleTeacher}, nil).Once()
		repo.On("RemoveGroupTeachers", ctx, "group-1", []string{"uid-5"}).Return(1, nil).Once()

		removed, err := service.RemoveTeachers(ctx, "group-1", []string{"teacher1"})

		assert.NoError(t, err)
		assert.Equal(t, 1, removed)
		repo.AssertExpectations(t)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		repo.On("GetUserByUsername", ctx, "ghost").
			Return(nil, errs.ErrNotFound).Once()

		_, err := service.RemoveTeachers(ctx, "group-1", []string{"ghost"})

		assert.ErrorIs(t, err, errs.ErrValidation)
		repo.AssertNotCalled(t, "RemoveGroupTeachers", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGroupService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("patch applies only set fields", func(t *testing.T) {
		repo := new(GroupRepoMock)
		service := NewGroupService(repo, discardLogger())

		repo.On("GetGroup", ctx, "group-1").Return(&models.Group{
			UID:         "group-1",
			CourseUID:   "course-1",
			Name:        "Group A",
			Description: "Morning group",
		}, nil).Once()

		newName := "Group B"
		repo.On("UpdateGroup", ctx, &models.Group{
			UID:         "group-1",
			CourseUID:   "course-1",
			Name:        newName,
			Description: "Morning group",
		}).Return(nil).Once()

		group, err := service.Update(ctx, "group-1", models.GroupPatch{Name: &newName})

		assert.NoError(t, err)
		assert.Equal(t, newName, group.Name)
		assert.Equal(t, "Morning group", group.Description)
		repo.AssertExpectations(t)
	})
}
