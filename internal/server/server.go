// Package server contains the HTTP handlers for the API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	_ "neuroflow/docs" // swagger docs
	"neuroflow/internal/cache"
	"neuroflow/internal/config"
	"neuroflow/internal/database"
	"neuroflow/internal/middleware"
	"neuroflow/internal/models"
	"neuroflow/internal/repository"
	"neuroflow/internal/seed"
	"neuroflow/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Locals keys set by AuthRequired.
const (
	localUserID = "userID"
	localUser   = "user"
	localClaims = "claims"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config           *config.Config
	db               *gorm.DB
	redis            *redis.Client
	app              *fiber.App
	promMiddleware   *fiberprometheus.FiberPrometheus
	clock            service.Clock
	userRepo         repository.UserRepository
	roadmapRepo      repository.RoadmapRepository
	taskRepo         repository.TaskRepository
	habitRepo        repository.HabitRepository
	analyticsRepo    repository.AnalyticsRepository
	authService      *service.AuthService
	roadmapService   *service.RoadmapService
	taskService      *service.TaskService
	habitService     *service.HabitService
	analyticsService *service.AnalyticsService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	srv, err := NewServerWithDeps(cfg, db, cache.GetClient())
	if err != nil {
		return nil, err
	}

	if cfg.SeedPredefinedOnStart {
		result, err := seed.PredefinedRoadmaps(context.Background(), srv.roadmapRepo)
		if err != nil {
			return nil, fmt.Errorf("seeding predefined roadmaps failed: %w", err)
		}
		middleware.Logger.Info("predefined roadmaps seeded",
			"created", len(result.Created), "skipped", len(result.Skipped))
	}

	return srv, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("server requires a config and a database")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("neuroflow-api"),
		clock:          service.NewClock(cfg.Location()),
		userRepo:       repository.NewUserRepository(db),
		roadmapRepo:    repository.NewRoadmapRepository(db),
		taskRepo:       repository.NewTaskRepository(db),
		habitRepo:      repository.NewHabitRepository(db),
		analyticsRepo:  repository.NewAnalyticsRepository(db),
	}

	s.authService = service.NewAuthService(s.userRepo, cfg.JWTSecret, cfg.TokenTTL())
	s.roadmapService = service.NewRoadmapService(s.roadmapRepo)
	s.taskService = service.NewTaskService(s.taskRepo, s.roadmapService, s.clock)
	s.habitService = service.NewHabitService(s.habitRepo, s.clock)
	s.analyticsService = service.NewAnalyticsService(s.analyticsRepo, s.clock, cfg.StreakMaxLookbackDays)

	return s, nil
}

// App builds the Fiber app with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:   "NeuroFlow API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, &models.AppError{Code: codeForStatus(fe.Code), Message: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Root)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "NeuroFlow Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	auth.Post("/token", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "token"), s.Token)
	auth.Get("/me", s.AuthRequired(), s.Me)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	protected := api.Group("", s.AuthRequired())

	roadmaps := protected.Group("/roadmaps")
	roadmaps.Get("/", s.ListRoadmaps)
	roadmaps.Post("/", s.CreateRoadmap)
	// Specific routes before generic /:id
	roadmaps.Post("/predefined", s.SeedPredefinedRoadmaps)
	roadmaps.Put("/milestones/:id/complete", s.CompleteMilestone)
	roadmaps.Get("/:id/milestones", s.ListMilestones)
	roadmaps.Post("/:id/milestones", s.CreateMilestone)
	roadmaps.Get("/:id", s.GetRoadmap)

	tasks := protected.Group("/tasks")
	tasks.Get("/", s.ListTasks)
	tasks.Post("/", s.CreateTask)
	tasks.Get("/today", s.TodayTasks)
	tasks.Put("/:id/complete", s.CompleteTask)
	tasks.Get("/:id", s.GetTask)
	tasks.Put("/:id", s.UpdateTask)
	tasks.Delete("/:id", s.DeleteTask)

	habits := protected.Group("/habits")
	habits.Get("/", s.ListHabits)
	habits.Post("/", s.CreateHabit)
	habits.Get("/today", s.TodayHabits)
	habits.Post("/quick-log", s.QuickLogHabit)
	habits.Get("/:id/entries", s.ListHabitEntries)
	habits.Post("/:id/entries", s.CreateHabitEntry)
	habits.Get("/:id", s.GetHabit)
	habits.Put("/:id", s.UpdateHabit)
	habits.Delete("/:id", s.DeleteHabit)

	analytics := protected.Group("/analytics")
	analytics.Get("/overview", s.AnalyticsOverview)
	analytics.Get("/productivity", s.AnalyticsProductivity)
	analytics.Get("/habits", s.AnalyticsHabits)
	analytics.Get("/streaks", s.AnalyticsStreaks)
}

// Root handles GET /
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to NeuroFlow API"})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional: without it caching and token revocation are disabled.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// AuthRequired resolves the bearer token to an active user and stores it in locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Not authenticated"))
		}

		user, claims, err := s.authService.ResolveUser(c.UserContext(), tokenString)
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return models.Respond(c, err)
		}

		c.Locals(localUserID, user.ID)
		c.Locals(localUser, user)
		c.Locals(localClaims, claims)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))

		return c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.App()
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

	if err := database.Close(s.db); err != nil {
		log.Printf("error closing sql DB: %v", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
