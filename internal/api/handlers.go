package api

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"todo/internal/auth"
	"todo/internal/service"
)

// TaskServiceFunc returns the task service scoped to one user.
type TaskServiceFunc func(userID string) *service.TaskService

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth   *auth.Service
	tasks  TaskServiceFunc
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authService *auth.Service, tasks TaskServiceFunc, logger *slog.Logger) *Handlers {
	return &Handlers{auth: authService, tasks: tasks, logger: logger}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: "Invalid request body",
	})
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.auth.Register(c.UserContext(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if errors.Is(err, auth.ErrUserExists) {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(userResponse(user))
}

// Login handles user login from a form or JSON body.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Email and password are required",
		})
	}

	token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return unauthorized(c, "Incorrect email or password")
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// taskService returns the caller's scoped service.
func (h *Handlers) taskService(c *fiber.Ctx) (*service.TaskService, error) {
	identity, ok := IdentityFrom(c)
	if !ok {
		return nil, unauthorized(c, "User not authenticated")
	}
	return h.tasks(identity.UserID), nil
}

// ListTasks returns the caller's tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	svc, err := h.taskService(c)
	if svc == nil {
		return err
	}
	tasks, err := svc.ListTasks(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(tasks)
}

// CreateTask creates a task owned by the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	svc, err := h.taskService(c)
	if svc == nil {
		return err
	}
	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	title := ""
	if req.Title != nil {
		title = *req.Title
	}

	category := ""
	if req.Category != nil {
		category = *req.Category
	}

	t, err := svc.AddTaskInCategory(c.UserContext(), title, req.Description, category)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// GetTask returns one of the caller's tasks.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	svc, err := h.taskService(c)
	if svc == nil {
		return err
	}
	t, err := svc.GetTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if t == nil {
		return notFound(c)
	}
	return c.JSON(t)
}

// UpdateTask changes the title, description and category of one of the caller's tasks.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	svc, err := h.taskService(c)
	if svc == nil {
		return err
	}
	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	ctx := c.UserContext()
	id := c.Params("id")
	if req.Category != nil {
		if _, err := service.NormalizeCategory(*req.Category); err != nil {
			return respondError(c, h.logger, err)
		}
	}
	var title string
	if req.Title != nil {
		title = *req.Title
	} else {
		current, err := svc.GetTask(ctx, id)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		if current == nil {
			return notFound(c)
		}
		title = current.Title
	}

	t, err := svc.UpdateTask(ctx, id, title, req.Description)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if t == nil {
		return notFound(c)
	}
	if req.Category != nil {
		t, err = svc.SetCategory(ctx, id, *req.Category)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		if t == nil {
			return notFound(c)
		}
	}
	return c.JSON(t)
}

// DeleteTask removes one of the caller's tasks.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	svc, err := h.taskService(c)
	if svc == nil {
		return err
	}
	deleted, err := svc.DeleteTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if !deleted {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleTask flips one of the caller's tasks between pending and completed.
func (h *Handlers) ToggleTask(c *fiber.Ctx) error {
	svc, err := h.taskService(c)
	if svc == nil {
		return err
	}
	t, err := svc.ToggleTaskStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if t == nil {
		return notFound(c)
	}
	return c.JSON(t)
}
