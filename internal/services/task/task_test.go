package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/models"
	"github.com/entercode/education-backend/internal/rabbitmq"
	services "github.com/entercode/education-backend/internal/services/task"
)

type TaskRepoMock struct {
	mock.Mock
}

func (m *TaskRepoMock) CreateTask(ctx context.Context, task models.Task) (string, error) {
	args := m.Called(ctx, task)
	return args.String(0), args.Error(1)
}

func (m *TaskRepoMock) GetTask(ctx context.Context, uid string) (*models.Task, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *TaskRepoMock) UpdateTask(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskRepoMock) DeleteTask(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *TaskRepoMock) ListTasksByTopic(ctx context.Context, topicUID string) ([]*models.Task, error) {
	args := m.Called(ctx, topicUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *TaskRepoMock) GetTopic(ctx context.Context, uid string) (*models.Topic, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Topic), args.Error(1)
}

func (m *TaskRepoMock) UpsertTaskResult(ctx context.Context, result models.TaskResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *TaskRepoMock) GetTaskResult(ctx context.Context, taskUID, userUID string) (*models.TaskResult, error) {
	args := m.Called(ctx, taskUID, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskResult), args.Error(1)
}

func (m *TaskRepoMock) SetTaskResultReview(ctx context.Context, taskUID, userUID string, score float64, status models.TaskStatus) error {
	args := m.Called(ctx, taskUID, userUID, score, status)
	return args.Error(0)
}

func (m *TaskRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(routingKey string, event rabbitmq.Event) error {
	args := m.Called(routingKey, event)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTaskService_Submit(t *testing.T) {
	task := &models.Task{UID: "task-1", TopicUID: "topic-1", Condition: "solve it"}

	paidStudent := &models.User{
		UID:                "uid-1",
		Username:           "ivan",
		Role:               models.RoleStudent,
		Status:             models.StatusActive,
		SubscriptionStatus: models.SubscriptionPaid,
		LessonsRemaining:   3,
	}
	expiredStudent := &models.User{
		UID:                "uid-2",
		Username:           "oleg",
		Role:               models.RoleStudent,
		Status:             models.StatusActive,
		SubscriptionStatus: models.SubscriptionExpired,
	}

	tests := []struct {
		name       string
		username   string
		setupMocks func(r *TaskRepoMock, p *PublisherMock)
		wantErr    error
	}{
		{
			name:     "successful submission goes under review",
			username: "ivan",
			setupMocks: func(r *TaskRepoMock, p *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").Return(paidStudent, nil).Once()
				r.On("GetTask", mock.Anything, "task-1").Return(task, nil).Once()
				r.On("UpsertTaskResult", mock.Anything, mock.MatchedBy(func(res models.TaskResult) bool {
					return res.TaskUID == "task-1" &&
						res.UserUID == "uid-1" &&
						res.Status == models.TaskUnderReview &&
						res.Solution == "my solution"
				})).Return(nil).Once()
				p.On("Publish", rabbitmq.RouteTaskSubmitted, mock.MatchedBy(func(e rabbitmq.Event) bool {
					return e.Username == "ivan"
				})).Return(nil).Once()
			},
		},
		{
			name:     "expired subscription is forbidden",
			username: "oleg",
			setupMocks: func(r *TaskRepoMock, _ *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "oleg").Return(expiredStudent, nil).Once()
			},
			wantErr: errs.ErrForbidden,
		},
		{
			name:     "unknown task",
			username: "ivan",
			setupMocks: func(r *TaskRepoMock, _ *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").Return(paidStudent, nil).Once()
				r.On("GetTask", mock.Anything, "task-1").
					Return(nil, fmt.Errorf("storage.GetTask: %w", errs.ErrNotFound)).Once()
			},
			wantErr: errs.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TaskRepoMock)
			pub := new(PublisherMock)
			svc := services.NewTaskService(repo, pub, discardLogger())

			tt.setupMocks(repo, pub)

			result, err := svc.Submit(context.Background(), "task-1", tt.username, "my solution", nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.TaskUnderReview, result.Status)
			}

			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestTaskService_Review(t *testing.T) {
	student := &models.User{UID: "uid-1", Username: "ivan", Role: models.RoleStudent}

	tests := []struct {
		name       string
		status     models.TaskStatus
		score      float64
		setupMocks func(r *TaskRepoMock)
		wantErr    error
	}{
		{
			name:   "accept solution",
			status: models.TaskCorrect,
			score:  9.5,
			setupMocks: func(r *TaskRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").Return(student, nil).Once()
				r.On("SetTaskResultReview", mock.Anything, "task-1", "uid-1", 9.5, models.TaskCorrect).
					Return(nil).Once()
				r.On("GetTaskResult", mock.Anything, "task-1", "uid-1").
					Return(&models.TaskResult{
						TaskUID: "task-1",
						UserUID: "uid-1",
						Score:   9.5,
						Status:  models.TaskCorrect,
					}, nil).Once()
			},
		},
		{
			name:       "under_review is not a verdict",
			status:     models.TaskUnderReview,
			setupMocks: func(_ *TaskRepoMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name:       "unknown status",
			status:     "brilliant",
			setupMocks: func(_ *TaskRepoMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name:   "no submission to review",
			status: models.TaskRejected,
			setupMocks: func(r *TaskRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").Return(student, nil).Once()
				r.On("SetTaskResultReview", mock.Anything, "task-1", "uid-1", 0.0, models.TaskRejected).
					Return(fmt.Errorf("storage.SetTaskResultReview: %w", errs.ErrNotFound)).Once()
			},
			wantErr: errs.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TaskRepoMock)
			svc := services.NewTaskService(repo, nil, discardLogger())

			tt.setupMocks(repo)

			result, err := svc.Review(context.Background(), "task-1", "ivan", tt.score, tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.status, result.Status)
				assert.Equal(t, tt.score, result.Score)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Read(t *testing.T) {
	task := &models.Task{UID: "task-1", TopicUID: "topic-1", Condition: "solve it"}

	t.Run("task with result", func(t *testing.T) {
		repo := new(TaskRepoMock)
		svc := services.NewTaskService(repo, nil, discardLogger())

		repo.On("GetTask", mock.Anything, "task-1").Return(task, nil).Once()
		repo.On("GetTaskResult", mock.Anything, "task-1", "uid-1").
			Return(&models.TaskResult{TaskUID: "task-1", UserUID: "uid-1", Status: models.TaskCorrect}, nil).Once()

		got, err := svc.Read(context.Background(), "task-1", "uid-1")
		require.NoError(t, err)
		assert.Equal(t, task, got.Task)
		assert.Equal(t, models.TaskCorrect, got.Result.Status)
		repo.AssertExpectations(t)
	})

	t.Run("no attempts yet", func(t *testing.T) {
		repo := new(TaskRepoMock)
		svc := services.NewTaskService(repo, nil, discardLogger())

		repo.On("GetTask", mock.Anything, "task-1").Return(task, nil).Once()
		repo.On("GetTaskResult", mock.Anything, "task-1", "uid-1").
			Return(nil, fmt.Errorf("storage.GetTaskResult: %w", errs.ErrNotFound)).Once()

		got, err := svc.Read(context.Background(), "task-1", "uid-1")
		require.NoError(t, err)
		assert.Equal(t, task, got.Task)
		assert.Nil(t, got.Result)
		repo.AssertExpectations(t)
	})
}
