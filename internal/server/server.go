// Package server contains the HTTP handlers and routing for the site.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/featureflags"
	"yatube/internal/media"
	"yatube/internal/middleware"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/session"
	"yatube/internal/views"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager
	sessions       *session.Manager
	media          *media.Store
	pages          *cache.PageCache
	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
	feedService    *service.FeedService
	accountService *service.AccountService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient backs every Redis use of the server: user and group lookups,
// the page cache, session revocation and login throttling. A nil client
// disables them; the page cache then falls back to process memory.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	userRepo := repository.NewUserRepository(db, redisClient)
	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("yatube"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		sessions:       session.NewManager(cfg.SecretKey, cfg.SessionTTL(), redisClient),
		media:          media.NewStore(cfg.MediaRoot, cfg.MediaURL, cfg.MaxUploadBytes()),
		pages:          cache.NewPageCache(redisClient, cfg.PageCacheTTL()),
	}

	server.postService = service.NewPostService(postRepo, userRepo, groupRepo, commentRepo, service.RedirectNonAuthor)
	server.commentService = service.NewCommentService(commentRepo, postRepo)
	server.followService = service.NewFollowService(followRepo, userRepo)
	server.feedService = service.NewFeedService(postRepo, userRepo, groupRepo, followRepo, cfg.PostsPerPage)
	server.accountService = service.NewAccountService(userRepo, 0)

	return server, nil
}

// Pages exposes the page cache so operators and tests can clear it.
func (s *Server) Pages() *cache.PageCache {
	return s.pages
}

// NewApp builds the Fiber application with views, middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "Yatube",
		Views:         views.NewEngine(s.media.URL),
		ErrorHandler:  s.errorHandler,
		BodyLimit:     int(s.config.MaxUploadBytes()) + 1024*1024,
		CaseSensitive: true,
		UnescapePath:  true,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Session cookie, before the context middleware so the user ID reaches the logs
	app.Use(s.LoadSession())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))

	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests, please try again later.")
		},
	}))
}

// SetupRoutes configures all routes for the application.
// Fixed prefixes are registered before the /:username catch-alls.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Static(s.media.URLPrefix(), s.media.Root())

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Accounts
	app.Get("/auth/signup/", s.signupEnabled(), s.Signup)
	app.Post("/auth/signup/", s.signupEnabled(), middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	app.Get("/auth/login/", s.Login)
	app.Post("/auth/login/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	getPost(app, "/auth/logout/", s.Logout)

	// Static pages
	app.Get("/about/author/", s.AboutAuthor)
	app.Get("/about/tech/", s.AboutTech)

	loginRequired := s.LoginRequired()

	app.Get("/group/:slug/", s.GroupPosts)
	getPost(app, "/new/", loginRequired, s.NewPost)
	app.Get("/follow/", loginRequired, s.FollowIndex)
	app.Get("/", s.cachePage("index"), s.Index)

	// Define specific /:username/:resource routes BEFORE generic /:username/:post_id
	getPost(app, "/:username/follow/", loginRequired, s.ProfileFollow)
	getPost(app, "/:username/unfollow/", loginRequired, s.ProfileUnfollow)
	app.Get("/:username/", s.Profile)
	getPost(app, "/:username/:post_id/edit/", loginRequired, s.PostEdit)
	getPost(app, "/:username/:post_id/comment/", loginRequired, s.AddComment)
	app.Get("/:username/:post_id/", s.PostView)
}

// getPost registers handlers for both GET and POST on path.
func getPost(r fiber.Router, path string, handlers ...fiber.Handler) {
	r.Get(path, handlers...)
	r.Post(path, handlers...)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
// Redis is optional: without it pages are cached in process memory only.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "disabled"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
