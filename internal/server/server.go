// Package server assembles the HTTP application: store selection, repository
// wiring, middleware stack, and routes.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jaiminshah2023/Work-Allocation-Tool/common/dto"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/auth"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/project"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/repository"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/sheetstore"
	"github.com/jaiminshah2023/Work-Allocation-Tool/internal/task"
	"github.com/jaiminshah2023/Work-Allocation-Tool/pkg/config"
	"github.com/jaiminshah2023/Work-Allocation-Tool/pkg/middleware"
)

// Server represents the work allocation server
type Server struct {
	app    *fiber.App
	config *config.Config
	store  repository.RowStore
	redis  *redis.Client
	gate   *auth.Gate
}

// NewServer creates a new server: picks the row store, wires repositories and
// services, and registers the routes.
func NewServer(cfg *config.Config) (*Server, error) {
	server := &Server{config: cfg}

	if err := server.initStore(); err != nil {
		return nil, err
	}

	tables := tableNames(cfg)
	users := repository.NewUsers(server.store, tables.Users)
	projects := repository.NewProjects(server.store, tables.Projects)
	tasks := repository.NewTasks(server.store, tables.Tasks)

	server.gate = auth.NewGate(users, cfg.Access.AllowedDomains, cfg.Access.AdminEmails)

	server.app = server.createApp()
	server.registerRoutes(users, projects, tasks)

	return server, nil
}

// initStore selects the backing row store. With sheets credentials the remote
// client is used; without them, development falls back to an in-memory store
// so the server still comes up locally.
func (s *Server) initStore() error {
	if s.config.Redis.Enabled() {
		client, err := initRedis(s.config.Redis)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		s.redis = client
	}

	creds, err := s.config.Sheets.Credentials()
	if err != nil {
		if s.config.IsDevelopment() {
			log.Warn().Msg("no sheets credentials, using in-memory store")
			s.store = sheetstore.NewMemory()
			return nil
		}
		return err
	}

	var cache sheetstore.Cache
	if s.redis != nil {
		cache = sheetstore.NewRedisCache(s.redis)
	}

	client, err := sheetstore.New(context.Background(), sheetstore.Config{
		Credentials:   creds,
		CacheTTL:      s.config.Sheets.CacheTTL,
		CallInterval:  s.config.Sheets.CallInterval,
		AppendRetries: s.config.Sheets.AppendRetries,
		Cache:         cache,
	})
	if err != nil {
		return err
	}
	s.store = client
	return nil
}

// tableNames maps logical tables to spreadsheet keys. The in-memory fallback
// works with the placeholder names too.
func tableNames(cfg *config.Config) repository.Tables {
	t := repository.Tables{
		Users:    cfg.Sheets.UsersSheetID,
		Projects: cfg.Sheets.ProjectsSheetID,
		Tasks:    cfg.Sheets.TasksSheetID,
	}
	if t.Users == "" {
		t.Users = "users"
	}
	if t.Projects == "" {
		t.Projects = "projects"
	}
	if t.Tasks == "" {
		t.Tasks = "tasks"
	}
	return t
}

func (s *Server) createApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "work-allocation-service",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.Recovery())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New())
	app.Use(helmet.New())

	// Rate limiting: the backing store has hard per-minute quotas, so the
	// edge limit is deliberately tighter than usual.
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "too many requests, please try again later",
				},
			})
		},
	}))

	// CORS
	if s.config.IsDevelopment() {
		app.Use(middleware.DevelopmentCORS())
	} else {
		app.Use(middleware.ProductionCORS(s.config.Server.AllowedOrigins))
	}

	return app
}

func (s *Server) registerRoutes(users *repository.Users, projects *repository.Projects, tasks *repository.Tasks) {
	// Health check
	s.app.Get("/health", s.healthCheck)

	// API v1
	v1 := s.app.Group("/api/v1")

	// Auth routes (public)
	authHandler := auth.NewHandler(s.gate, s.config)
	v1.Post("/auth/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.Auth(middleware.AuthConfig{
		JWTSecret: s.config.Auth.JWTSecret,
		SkipPaths: []string{
			"/api/v1/auth/login",
		},
	}))

	protected.Get("/auth/me", authHandler.Me)

	// User directory
	userHandler := auth.NewUserHandler(users)
	protected.Get("/users", userHandler.List)

	// Projects
	projectHandler := project.NewHandler(project.NewService(projects, tasks, s.gate))
	protected.Post("/projects", projectHandler.Create)
	protected.Get("/projects", projectHandler.List)
	protected.Get("/projects/:name", projectHandler.Get)
	protected.Put("/projects/:name", projectHandler.Update)
	protected.Patch("/projects/:name/status", projectHandler.UpdateStatus)

	// Tasks
	taskHandler := task.NewHandler(task.NewService(tasks, projects, users, s.gate))
	protected.Post("/tasks", taskHandler.Create)
	protected.Post("/tasks/bulk", taskHandler.CreateBulk)
	protected.Get("/tasks", taskHandler.List)
	protected.Get("/tasks/:name", taskHandler.Get)
	protected.Put("/tasks/:name", taskHandler.Update)
	protected.Patch("/tasks/:name/status", taskHandler.UpdateStatus)
}

func (s *Server) healthCheck(c *fiber.Ctx) error {
	services := make(map[string]string)

	switch s.store.(type) {
	case *sheetstore.Memory:
		services["sheets"] = "in_memory"
	default:
		services["sheets"] = "ok"
	}

	if s.redis != nil {
		if err := s.redis.Ping(c.Context()).Err(); err != nil {
			services["redis"] = "error"
		} else {
			services["redis"] = "ok"
		}
	} else {
		services["redis"] = "not_configured"
	}

	status := "healthy"
	for _, v := range services {
		if v == "error" {
			status = "unhealthy"
			break
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:   status,
		Version:  "1.0.0",
		Services: services,
	})
}

// Listen starts the HTTP server
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// App exposes the fiber app for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// ShutdownWithContext gracefully shuts down the server
func (s *Server) ShutdownWithContext(ctx context.Context) error {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	return s.app.ShutdownWithContext(ctx)
}

func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.Address())
	if err != nil {
		opt = &redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(dto.Error(
		errorCodeFromStatus(code),
		err.Error(),
	))
}

func errorCodeFromStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMIT"
	default:
		return "INTERNAL_ERROR"
	}
}
