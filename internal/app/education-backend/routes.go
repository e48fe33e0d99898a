// Package educationbackend предоставляет маршруты для основного приложения.
package educationbackend

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/entercode/education-backend/internal/http/handlers/auth/changepassword"
	"github.com/entercode/education-backend/internal/http/handlers/auth/deleteaccount"
	"github.com/entercode/education-backend/internal/http/handlers/auth/login"
	"github.com/entercode/education-backend/internal/http/handlers/auth/logout"
	"github.com/entercode/education-backend/internal/http/handlers/auth/me"
	"github.com/entercode/education-backend/internal/http/handlers/auth/refresh"
	"github.com/entercode/education-backend/internal/http/handlers/auth/register"
	"github.com/entercode/education-backend/internal/http/handlers/auth/updateprofile"
	coursecreate "github.com/entercode/education-backend/internal/http/handlers/course/create"
	courselist "github.com/entercode/education-backend/internal/http/handlers/course/list"
	courseread "github.com/entercode/education-backend/internal/http/handlers/course/read"
	courseremove "github.com/entercode/education-backend/internal/http/handlers/course/remove"
	coursestats "github.com/entercode/education-backend/internal/http/handlers/course/stats"
	courseupdate "github.com/entercode/education-backend/internal/http/handlers/course/update"
	groupaddstudents "github.com/entercode/education-backend/internal/http/handlers/group/addstudents"
	groupaddteachers "github.com/entercode/education-backend/internal/http/handlers/group/addteachers"
	groupcreate "github.com/entercode/education-backend/internal/http/handlers/group/create"
	grouplist "github.com/entercode/education-backend/internal/http/handlers/group/list"
	groupread "github.com/entercode/education-backend/internal/http/handlers/group/read"
	groupremove "github.com/entercode/education-backend/internal/http/handlers/group/remove"
	groupremovestudents "github.com/entercode/education-backend/internal/http/handlers/group/removestudents"
	groupremoveteachers "github.com/entercode/education-backend/internal/http/handlers/group/removeteachers"
	groupupdate "github.com/entercode/education-backend/internal/http/handlers/group/update"
	"github.com/entercode/education-backend/internal/http/handlers/health"
	subscriptionextend "github.com/entercode/education-backend/internal/http/handlers/subscription/extend"
	subscriptioninfo "github.com/entercode/education-backend/internal/http/handlers/subscription/info"
	subscriptionuse "github.com/entercode/education-backend/internal/http/handlers/subscription/uselesson"
	taskcreate "github.com/entercode/education-backend/internal/http/handlers/task/create"
	tasklist "github.com/entercode/education-backend/internal/http/handlers/task/list"
	taskread "github.com/entercode/education-backend/internal/http/handlers/task/read"
	taskremove "github.com/entercode/education-backend/internal/http/handlers/task/remove"
	taskreview "github.com/entercode/education-backend/internal/http/handlers/task/review"
	tasksubmit "github.com/entercode/education-backend/internal/http/handlers/task/submit"
	taskupdate "github.com/entercode/education-backend/internal/http/handlers/task/update"
	topiccreate "github.com/entercode/education-backend/internal/http/handlers/topic/create"
	topiclist "github.com/entercode/education-backend/internal/http/handlers/topic/list"
	topicread "github.com/entercode/education-backend/internal/http/handlers/topic/read"
	topicremove "github.com/entercode/education-backend/internal/http/handlers/topic/remove"
	topicupdate "github.com/entercode/education-backend/internal/http/handlers/topic/update"
	userlist "github.com/entercode/education-backend/internal/http/handlers/user/list"
	userprofile "github.com/entercode/education-backend/internal/http/handlers/user/profile"
	usersearch "github.com/entercode/education-backend/internal/http/handlers/user/search"
	"github.com/entercode/education-backend/internal/http/middlewarectx"
	"github.com/entercode/education-backend/internal/models"
	authservice "github.com/entercode/education-backend/internal/services/auth"
	courseservice "github.com/entercode/education-backend/internal/services/course"
	groupservice "github.com/entercode/education-backend/internal/services/group"
	subscriptionservice "github.com/entercode/education-backend/internal/services/subscription"
	taskservice "github.com/entercode/education-backend/internal/services/task"
	topicservice "github.com/entercode/education-backend/internal/services/topic"
	userservice "github.com/entercode/education-backend/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	userService *userservice.UserService,
	subscriptionService *subscriptionservice.SubscriptionService,
	courseService *courseservice.CourseService,
	groupService *groupservice.GroupService,
	topicService *topicservice.TopicService,
	taskService *taskservice.TaskService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware(),
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/refresh", refresh.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/me", me.New(logger, authService).ServeHTTP)
			r.Patch("/me", updateprofile.New(logger, authService).ServeHTTP)
			r.Delete("/me", deleteaccount.New(logger, authService).ServeHTTP)
			r.Put("/me/password", changepassword.New(logger, authService).ServeHTTP)
			r.Post("/logout", logout.New(logger, authService).ServeHTTP)

			r.Get("/subscriptions/info", subscriptioninfo.New(logger, subscriptionService).ServeHTTP)

			r.Get("/courses", courselist.New(logger, courseService).ServeHTTP)
			r.Get("/courses/{uid}", courseread.New(logger, courseService).ServeHTTP)
			r.Get("/courses/{uid}/stats", coursestats.New(logger, courseService).ServeHTTP)
			r.Get("/courses/{uid}/groups", grouplist.New(logger, groupService).ServeHTTP)
			r.Get("/courses/{uid}/topics", topiclist.New(logger, topicService).ServeHTTP)
			r.Get("/groups/{uid}", groupread.New(logger, groupService).ServeHTTP)
			r.Get("/topics/{uid}", topicread.New(logger, topicService).ServeHTTP)
			r.Get("/topics/{uid}/tasks", tasklist.New(logger, taskService).ServeHTTP)
			r.Get("/tasks/{uid}", taskread.New(logger, taskService).ServeHTTP)
			r.Post("/tasks/{uid}/submit", tasksubmit.New(logger, taskService).ServeHTTP)

			// Операции преподавателей
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(models.RoleTeacher, logger))

				r.Post("/subscriptions/extend", subscriptionextend.New(logger, subscriptionService).ServeHTTP)
				r.Post("/subscriptions/use", subscriptionuse.New(logger, subscriptionService).ServeHTTP)

				r.Post("/courses", coursecreate.New(logger, courseService).ServeHTTP)
				r.Patch("/courses/{uid}", courseupdate.New(logger, courseService).ServeHTTP)
				r.Delete("/courses/{uid}", courseremove.New(logger, courseService).ServeHTTP)

				r.Post("/groups", groupcreate.New(logger, groupService).ServeHTTP)
				r.Patch("/groups/{uid}", groupupdate.New(logger, groupService).ServeHTTP)
				r.Delete("/groups/{uid}", groupremove.New(logger, groupService).ServeHTTP)
				r.Post("/groups/{uid}/students", groupaddstudents.New(logger, groupService).ServeHTTP)
				r.Delete("/groups/{uid}/students", groupremovestudents.New(logger, groupService).ServeHTTP)

				r.Post("/topics", topiccreate.New(logger, topicService).ServeHTTP)
				r.Patch("/topics/{uid}", topicupdate.New(logger, topicService).ServeHTTP)
				r.Delete("/topics/{uid}", topicremove.New(logger, topicService).ServeHTTP)

				r.Post("/tasks", taskcreate.New(logger, taskService).ServeHTTP)
				r.Patch("/tasks/{uid}", taskupdate.New(logger, taskService).ServeHTTP)
				r.Delete("/tasks/{uid}", taskremove.New(logger, taskService).ServeHTTP)
				r.Post("/tasks/{uid}/review", taskreview.New(logger, taskService).ServeHTTP)

				r.Get("/users/search", usersearch.New(logger, userService).ServeHTTP)
				r.Get("/users/{username}", userprofile.New(logger, userService).ServeHTTP)
			})

			// Операции администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))

				r.Get("/users", userlist.New(logger, userService).ServeHTTP)
				r.Post("/groups/{uid}/teachers", groupaddteachers.New(logger, groupService).ServeHTTP)
				r.Delete("/groups/{uid}/teachers", groupremoveteachers.New(logger, groupService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
