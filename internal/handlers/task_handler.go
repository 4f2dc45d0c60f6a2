package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/organizr-dev/organizr-api/internal/dto"
	"github.com/organizr-dev/organizr-api/internal/middleware"
	"github.com/organizr-dev/organizr-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	owner, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}

	task, err := h.taskService.Create(owner, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	owner, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}

	tasks, err := h.taskService.List(owner, c.Query("status"), parseListFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	taskID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	task, err := h.taskService.Get(taskID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), task.OwnerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	taskID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	task, err := h.taskService.Get(taskID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), task.OwnerID); err != nil {
		return respondError(c, err)
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.taskService.Update(taskID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	taskID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	task, err := h.taskService.Get(taskID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), task.OwnerID); err != nil {
		return respondError(c, err)
	}

	if err := h.taskService.Delete(taskID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Task deleted"})
}

func (h *TaskHandler) Occurrences(c *fiber.Ctx) error {
	owner, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}

	from, to, err := parseWindow(c)
	if err != nil {
		return respondError(c, err)
	}

	occurrences, err := h.taskService.Occurrences(owner, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(occurrences)
}

func (h *TaskHandler) PutException(c *fiber.Ctx) error {
	taskID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	task, err := h.taskService.Get(taskID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), task.OwnerID); err != nil {
		return respondError(c, err)
	}

	var req dto.PutExceptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Target.IsZero() {
		return badRequest(c, "target is required")
	}

	resp, err := h.taskService.PutException(taskID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *TaskHandler) DeleteException(c *fiber.Ctx) error {
	taskID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	task, err := h.taskService.Get(taskID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), task.OwnerID); err != nil {
		return respondError(c, err)
	}

	var req dto.DeleteExceptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Target.IsZero() {
		return badRequest(c, "target is required")
	}

	if err := h.taskService.DeleteException(taskID, &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Exception removed"})
}
