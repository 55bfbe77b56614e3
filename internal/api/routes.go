package api

import (
	"context"
	"log/slog"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// HealthChecker reports the health of a component.
type HealthChecker interface {
	Health(ctx context.Context) mono.HealthStatus
}

// Deps are the collaborators the HTTP app is built from.
type Deps struct {
	Handlers *Handlers
	Verifier TokenVerifier
	// AuthRatePerMinute limits register and login per client IP. Zero disables the limit.
	AuthRatePerMinute int
	// Health maps component names to their health checks.
	Health map[string]HealthChecker
	Logger *slog.Logger
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// NewApp builds the Fiber application with middleware and routes.
func NewApp(deps Deps) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	app := fiber.New(fiber.Config{
		AppName:               "todo",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/health", healthHandler(deps.Health))

	authRoutes := app.Group("/api/auth")
	if deps.AuthRatePerMinute > 0 {
		authRoutes.Use(RateLimiter(deps.AuthRatePerMinute))
	}
	authRoutes.Post("/register", deps.Handlers.Register)
	authRoutes.Post("/login", deps.Handlers.Login)

	tasks := app.Group("/api/tasks", AuthMiddleware(deps.Verifier))
	tasks.Get("/", deps.Handlers.ListTasks)
	tasks.Post("/", deps.Handlers.CreateTask)
	tasks.Get("/:id", deps.Handlers.GetTask)
	tasks.Put("/:id", deps.Handlers.UpdateTask)
	tasks.Delete("/:id", deps.Handlers.DeleteTask)
	tasks.Patch("/:id/complete", deps.Handlers.ToggleTask)

	return app
}

func healthHandler(checks map[string]HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		healthy := true
		modules := make(map[string]mono.HealthStatus, len(checks))
		for name, check := range checks {
			status := check.Health(c.UserContext())
			modules[name] = status
			healthy = healthy && status.Healthy
		}

		body := fiber.Map{"status": "healthy", "modules": modules}
		if !healthy {
			body["status"] = "unhealthy"
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		return c.JSON(body)
	}
}
