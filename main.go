package main

import (
	"context"
	"log"
	"os"

	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/ratelimit"
	"github.com/example/task-tracker/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Task Tracker - Fiber + GORM/SQLite ===")

	cfg := loadConfig()

	logLevel := mono.LogLevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = mono.LogLevelDebug
	case "warn":
		logLevel = mono.LogLevelWarn
	case "error":
		logLevel = mono.LogLevelError
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	authModule := auth.NewModule(auth.JWTConfig{
		SecretKey:           cfg.JWTSecretKey,
		AccessTokenDuration: cfg.JWTTokenTTL,
		Issuer:              cfg.JWTIssuer,
	}, cfg.AuthDemoUsers, logger.WithModule("auth"))
	taskModule := task.NewModule(cfg.DBPath, cfg.DBDebug, logger.WithModule("task"))
	activityModule := activity.NewModule(cfg.ActivityHistory, logger.WithModule("activity"))
	rateLimitModule := ratelimit.NewModule(cfg.RedisAddr, cfg.RedisPassword, ratelimit.Config{
		RequestsPerWindow: cfg.RateLimitRequests,
		WindowSize:        cfg.RateLimitWindow,
	}, logger.WithModule("ratelimit"))

	apiModule := api.NewModule(cfg.HTTPPort, logger.WithModule("api"))
	apiModule.SetRateLimiter(rateLimitModule)
	apiModule.SetHealthChecks(authModule, taskModule, rateLimitModule)

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - auth: bearer token validation
	// - task: core domain (GORM/SQLite storage, emits task events)
	// - activity: event consumer (per-owner audit trail)
	// - ratelimit: Redis sliding window, used by api as middleware
	// - api: driving adapter (Fiber HTTP server)
	for _, module := range []mono.Module{authModule, taskModule, activityModule, rateLimitModule, apiModule} {
		if err := app.Register(module); err != nil {
			log.Fatalf("Failed to register %s module: %v", module.Name(), err)
		}
	}

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg Config) {
	rateLimiting := "disabled"
	if cfg.RedisAddr != "" {
		rateLimiting = cfg.RedisAddr
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("  - Database: %s", cfg.DBPath)
	log.Printf("  - Rate limiting: %s", rateLimiting)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", cfg.HTTPPort)
	log.Println("  GET    /api/v1/tasks?status=&priority=  - List tasks")
	log.Println("  POST   /api/v1/tasks                    - Create task")
	log.Println("  GET    /api/v1/tasks/:id                - Get task")
	log.Println("  PUT    /api/v1/tasks/:id                - Replace task")
	log.Println("  PATCH  /api/v1/tasks/:id                - Update task fields")
	log.Println("  DELETE /api/v1/tasks/:id                - Soft-delete task")
	log.Println("  GET    /api/v1/activity                 - Recent task activity")
	log.Println("  GET    /health                          - Health check")
	log.Println("")
	log.Println("All /api/v1 routes require: Authorization: Bearer <jwt>")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
