package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MohammadTashkandi/task-manager-app/internal/repository"
	"github.com/MohammadTashkandi/task-manager-app/internal/service"
)

type TaskHandler struct {
	taskService service.TaskService
	validate    *validator.Validate
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validate:    validator.New(),
	}
}

type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request CreateTaskRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	task, err := h.taskService.CreateTask(c.Context(), user.ID, request.Description, request.Completed)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create task"})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// parseTaskFilter builds the listing filter from the query string. The
// completed filter only applies when the parameter is literally present;
// sortBy follows the "field:order" form with ascending as the default.
func parseTaskFilter(c *fiber.Ctx) repository.TaskFilter {
	filter := repository.TaskFilter{
		Limit: c.QueryInt("limit"),
		Skip:  c.QueryInt("skip"),
	}

	if completed := c.Query("completed"); completed != "" {
		value := completed == "true"
		filter.Completed = &value
	}

	if sortBy := c.Query("sortBy"); sortBy != "" {
		field, order, _ := strings.Cut(sortBy, ":")
		filter.SortBy = field
		filter.SortDesc = order == "desc"
	}

	return filter
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	tasks, err := h.taskService.ListTasks(c.Context(), user.ID, parseTaskFilter(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not list tasks"})
	}

	if len(tasks) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "There are no tasks yet"})
	}

	return c.Status(fiber.StatusOK).JSON(tasks)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	task, err := h.taskService.GetTask(c.Context(), taskID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch task"})
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

type UpdateTaskRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

var allowedTaskFields = map[string]bool{
	"description": true,
	"completed":   true,
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	for field := range raw {
		if !allowedTaskFields[field] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid update field: " + field})
		}
	}

	var request UpdateTaskRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	task, err := h.taskService.UpdateTask(c.Context(), taskID, user.ID, service.UpdateTaskDTO{
		Description: request.Description,
		Completed:   request.Completed,
	})

	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		if errors.Is(err, service.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update task"})
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	task, err := h.taskService.DeleteTask(c.Context(), taskID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete task"})
	}

	return c.Status(fiber.StatusOK).JSON(task)
}
