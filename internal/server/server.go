// Package server contains the Fiber handlers that render the board's pages
// and process its form submissions.
package server

import (
	"context"
	"io"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"amumal/internal/backend"
	"amumal/internal/config"
	"amumal/internal/middleware"
	"amumal/internal/service"
	"amumal/internal/session"
)

// Server holds all dependencies and provides the page handlers.
type Server struct {
	config         *config.Config
	store          session.Store
	api            *backend.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	auth           *service.AuthService
	users          *service.UserService
	posts          *service.PostService
	comments       *service.CommentService
	images         *service.ImageService
}

// NewServer creates a server instance with all dependencies. When Redis is
// unreachable the session store falls back to process memory so the pages
// stay up.
func NewServer(cfg *config.Config) *Server {
	var store session.Store
	if rs := session.Connect(cfg.RedisURL); rs != nil {
		store = rs
	} else {
		middleware.Logger.Warn("redis unavailable, sessions fall back to process memory")
		store = session.NewMemoryStore()
	}

	api := backend.New(cfg.BackendURL, time.Duration(cfg.RequestTimeout)*time.Second)
	return NewServerWithDeps(cfg, store, api)
}

// NewServerWithDeps creates a Server from already-initialized dependencies.
// Tests use this with a memory store and an httptest backend.
func NewServerWithDeps(cfg *config.Config, store session.Store, api *backend.Client) *Server {
	auth := service.NewAuthService(api, store)
	return &Server{
		config:         cfg,
		store:          store,
		api:            api,
		promMiddleware: middleware.InitMetrics("amumal-web"),
		auth:           auth,
		users:          service.NewUserService(api, store, auth),
		posts:          service.NewPostService(api),
		comments:       service.NewCommentService(api),
		images:         service.NewImageService(),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Tracing before context so the trace id lands in request-scoped logs
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (300 requests per minute per IP; every page render
	// may fan out to the backend)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				SendString("요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
		},
	}))
}

// SetupRoutes configures all routes. Page paths keep the static-file names
// the board has always used so old bookmarks keep working.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Amumal Web Metrics Dashboard",
	}))

	app.Get("/health", s.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/board.html", fiber.StatusFound)
	})

	// Auth pages
	app.Get("/login.html", s.LoginPage)
	app.Post("/login.html", s.Login)
	app.Get("/signup.html", s.SignupPage)
	app.Post("/signup.html", s.Signup)
	app.Post("/logout", s.Logout)

	// Board
	app.Get("/board.html", s.BoardPage)
	app.Get("/search.html", s.SearchPage)

	// Posts
	app.Get("/post-create.html", s.PostCreatePage)
	app.Post("/post-create.html", s.CreatePost)
	app.Get("/post-detail.html", s.PostDetailPage)
	app.Get("/post-edit.html", s.PostEditPage)
	app.Post("/post-edit.html", s.UpdatePost)
	app.Post("/posts/:postId/like", s.ToggleLike)
	app.Post("/posts/:postId/delete", s.DeletePost)

	// Comments
	app.Post("/posts/:postId/comments", s.CreateComment)
	app.Post("/posts/:postId/comments/:commentId", s.UpdateComment)
	app.Post("/posts/:postId/comments/:commentId/delete", s.DeleteComment)

	// Profile
	app.Get("/profile-edit.html", s.ProfileEditPage)
	app.Post("/profile-edit.html", s.UpdateProfile)
	app.Get("/password-edit.html", s.PasswordEditPage)
	app.Post("/password-edit.html", s.UpdatePassword)
	app.Post("/account/delete", s.DeleteAccount)

	// Admin
	app.Post("/admin/views/reset", s.ResetViews)
}

// Shutdown releases server resources.
func (s *Server) Shutdown(_ context.Context) error {
	if closer, ok := s.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// HealthCheck reports liveness. The backend is a collaborator, not a gated
// dependency; a dead backend still serves the login page.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "amumal-web",
	})
}
