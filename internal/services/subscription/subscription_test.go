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
	services "github.com/entercode/education-backend/internal/services/subscription"
)

type SubscriptionRepoMock struct {
	mock.Mock
}

func (m *SubscriptionRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *SubscriptionRepoMock) UpdateUserSubscription(ctx context.Context, uid string, status models.SubscriptionStatus, lessonsRemaining int) error {
	args := m.Called(ctx, uid, status, lessonsRemaining)
	return args.Error(0)
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

func student(lessons int, status models.SubscriptionStatus) *models.User {
	return &models.User{
		UID:                "uid-1",
		Username:           "ivan",
		Role:               models.RoleStudent,
		Status:             models.StatusActive,
		SubscriptionStatus: status,
		LessonsRemaining:   lessons,
	}
}

func TestSubscriptionService_Extend(t *testing.T) {
	tests := []struct {
		name          string
		lessons       int
		setupMocks    func(r *SubscriptionRepoMock, p *PublisherMock)
		wantRemaining int
		wantErr       error
	}{
		{
			name:    "extend expired subscription",
			lessons: 8,
			setupMocks: func(r *SubscriptionRepoMock, p *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(student(0, models.SubscriptionExpired), nil).Once()
				r.On("UpdateUserSubscription", mock.Anything, "uid-1", models.SubscriptionPaid, 8).
					Return(nil).Once()
				p.On("Publish", rabbitmq.RouteSubscriptionExtended, mock.Anything).Return(nil).Once()
			},
			wantRemaining: 8,
		},
		{
			name:    "extend adds to remaining lessons",
			lessons: 4,
			setupMocks: func(r *SubscriptionRepoMock, p *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(student(3, models.SubscriptionPaid), nil).Once()
				r.On("UpdateUserSubscription", mock.Anything, "uid-1", models.SubscriptionPaid, 7).
					Return(nil).Once()
				p.On("Publish", rabbitmq.RouteSubscriptionExtended, mock.Anything).Return(nil).Once()
			},
			wantRemaining: 7,
		},
		{
			name:       "zero lessons rejected",
			lessons:    0,
			setupMocks: func(_ *SubscriptionRepoMock, _ *PublisherMock) {},
			wantErr:    errs.ErrValidation,
		},
		{
			name:    "teacher has no subscription",
			lessons: 4,
			setupMocks: func(r *SubscriptionRepoMock, _ *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(&models.User{UID: "uid-1", Username: "ivan", Role: models.RoleTeacher}, nil).Once()
			},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "unknown user",
			lessons: 4,
			setupMocks: func(r *SubscriptionRepoMock, _ *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(nil, fmt.Errorf("storage.GetUserByUsername: %w", errs.ErrNotFound)).Once()
			},
			wantErr: errs.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SubscriptionRepoMock)
			pub := new(PublisherMock)
			svc := services.NewSubscriptionService(repo, pub, discardLogger())

			tt.setupMocks(repo, pub)

			info, err := svc.Extend(context.Background(), "ivan", tt.lessons)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.SubscriptionPaid, info.Status)
				assert.Equal(t, tt.wantRemaining, info.LessonsRemaining)
				assert.True(t, info.Valid)
			}

			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_GetInfo(t *testing.T) {
	tests := []struct {
		name      string
		user      *models.User
		wantValid bool
	}{
		{
			name:      "paid student with lessons",
			user:      student(5, models.SubscriptionPaid),
			wantValid: true,
		},
		{
			name:      "unpaid student",
			user:      student(0, models.SubscriptionUnpaid),
			wantValid: false,
		},
		{
			name:      "teacher is always valid",
			user:      &models.User{UID: "uid-2", Username: "ivan", Role: models.RoleTeacher},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SubscriptionRepoMock)
			svc := services.NewSubscriptionService(repo, nil, discardLogger())

			repo.On("GetUserByUsername", mock.Anything, "ivan").Return(tt.user, nil).Once()

			info, err := svc.GetInfo(context.Background(), "ivan")
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, info.Valid)
			assert.Equal(t, tt.user.LessonsRemaining, info.LessonsRemaining)

			repo.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_UseLesson(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(r *SubscriptionRepoMock, p *PublisherMock)
		wantStatus    models.SubscriptionStatus
		wantRemaining int
		wantErr       error
	}{
		{
			name: "use lesson keeps subscription paid",
			setupMocks: func(r *SubscriptionRepoMock, _ *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(student(3, models.SubscriptionPaid), nil).Once()
				r.On("UpdateUserSubscription", mock.Anything, "uid-1", models.SubscriptionPaid, 2).
					Return(nil).Once()
			},
			wantStatus:    models.SubscriptionPaid,
			wantRemaining: 2,
		},
		{
			name: "last lesson expires subscription and publishes event",
			setupMocks: func(r *SubscriptionRepoMock, p *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(student(1, models.SubscriptionPaid), nil).Once()
				r.On("UpdateUserSubscription", mock.Anything, "uid-1", models.SubscriptionExpired, 0).
					Return(nil).Once()
				p.On("Publish", rabbitmq.RouteSubscriptionExpired, mock.MatchedBy(func(e rabbitmq.Event) bool {
					return e.Username == "ivan"
				})).Return(nil).Once()
			},
			wantStatus:    models.SubscriptionExpired,
			wantRemaining: 0,
		},
		{
			name: "expired subscription rejected",
			setupMocks: func(r *SubscriptionRepoMock, _ *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(student(0, models.SubscriptionExpired), nil).Once()
			},
			wantErr: errs.ErrValidation,
		},
		{
			name: "unpaid subscription rejected",
			setupMocks: func(r *SubscriptionRepoMock, _ *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(student(5, models.SubscriptionUnpaid), nil).Once()
			},
			wantErr: errs.ErrValidation,
		},
		{
			name: "admin has no lessons to use",
			setupMocks: func(r *SubscriptionRepoMock, _ *PublisherMock) {
				r.On("GetUserByUsername", mock.Anything, "ivan").
					Return(&models.User{UID: "uid-1", Username: "ivan", Role: models.RoleAdmin}, nil).Once()
			},
			wantErr: errs.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(SubscriptionRepoMock)
			pub := new(PublisherMock)
			svc := services.NewSubscriptionService(repo, pub, discardLogger())

			tt.setupMocks(repo, pub)

			info, err := svc.UseLesson(context.Background(), "ivan")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, info.Status)
				assert.Equal(t, tt.wantRemaining, info.LessonsRemaining)
			}

			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}
