package educationbackend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/entercode/education-backend/internal/config"
	"github.com/entercode/education-backend/internal/lib/jwt"
	"github.com/entercode/education-backend/internal/migrations"
	"github.com/entercode/education-backend/internal/rabbitmq"
	authservice "github.com/entercode/education-backend/internal/services/auth"
	courseservice "github.com/entercode/education-backend/internal/services/course"
	groupservice "github.com/entercode/education-backend/internal/services/group"
	subscriptionservice "github.com/entercode/education-backend/internal/services/subscription"
	taskservice "github.com/entercode/education-backend/internal/services/task"
	topicservice "github.com/entercode/education-backend/internal/services/topic"
	userservice "github.com/entercode/education-backend/internal/services/user"
	"github.com/entercode/education-backend/internal/storage"
	"github.com/entercode/education-backend/internal/throttle"
)

const (
	loginMaxTries   = 5
	loginWindow     = 15 * time.Minute
	rabbitMQRetries = 5
	rabbitMQDelay   = 3 * time.Second
	shutdownTimeout = 15 * time.Second
)

type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *storage.Storage
	limiter *throttle.LoginLimiter
	rabbit  *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	limiter, err := throttle.NewLoginLimiter(ctx, cfg.RedisConnection, loginMaxTries, loginWindow)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, rabbitMQRetries, rabbitMQDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetEventQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, limiter, logger)
	userService := userservice.NewUserService(db)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, publisher, logger)
	courseService := courseservice.NewCourseService(db, logger)
	groupService := groupservice.NewGroupService(db, logger)
	topicService := topicservice.NewTopicService(db, logger)
	taskService := taskservice.NewTaskService(db, publisher, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, authService, userService, subscriptionService,
		courseService, groupService, topicService, taskService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		db:      db,
		limiter: limiter,
		rabbit:  conn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.limiter.Close(); cerr != nil {
			a.logger.Error("failed to close login limiter", slog.Any("err", cerr))
		}
		if cerr := a.rabbit.Close(); cerr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
