// Package main implements the entry point for the taskboard API server,
// a multi-tenant task tracker with role-based access control.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"

	"github.com/taskboard/taskboard-api/internal/api"
	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/platform/postgres"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/service/auth"
)

// main is the entry point for the taskboard-api server.
// It initializes configuration, logging, the database, and services, then
// starts the HTTP server.
func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// application holds the wired dependencies shared across the server.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	jwtService  auth.JWTService
	taskService service.TaskService
	userService service.UserService
	userHandler *api.UserHandler
	taskHandler *api.TaskHandler
}

// initializeApp loads configuration and sets up application components.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, appLogger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	passwordVerifier := auth.NewBcryptVerifier()
	passwordHasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	taskService, err := service.NewTaskService(taskStore, userStore, db, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	userService, err := service.NewUserService(userStore, jwtService, passwordVerifier, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	if cfg.Database.SeedUsers {
		if err := seedUsers(context.Background(), db, passwordHasher, appLogger); err != nil {
			return nil, fmt.Errorf("failed to seed users: %w", err)
		}
	}

	return &application{
		config:      cfg,
		logger:      appLogger,
		db:          db,
		jwtService:  jwtService,
		taskService: taskService,
		userService: userService,
		userHandler: api.NewUserHandler(userService, appLogger),
		taskHandler: api.NewTaskHandler(taskService, appLogger),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
