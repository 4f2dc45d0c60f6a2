package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/organizr-dev/organizr-api/internal/dto"
	"github.com/organizr-dev/organizr-api/internal/middleware"
	"github.com/organizr-dev/organizr-api/internal/services"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	owner, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}

	event, err := h.eventService.Create(owner, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	owner, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}

	events, err := h.eventService.List(owner, parseListFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	eventID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.Get(eventID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), event.OwnerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	eventID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.Get(eventID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), event.OwnerID); err != nil {
		return respondError(c, err)
	}

	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.eventService.Update(eventID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	eventID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.Get(eventID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), event.OwnerID); err != nil {
		return respondError(c, err)
	}

	if err := h.eventService.Delete(eventID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Event deleted"})
}

// Occurrences expands every event series of the target user into the
// queried [from, to) window, exceptions applied.
func (h *EventHandler) Occurrences(c *fiber.Ctx) error {
	owner, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}

	from, to, err := parseWindow(c)
	if err != nil {
		return respondError(c, err)
	}

	occurrences, err := h.eventService.Occurrences(owner, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(occurrences)
}

func (h *EventHandler) PutException(c *fiber.Ctx) error {
	eventID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.Get(eventID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), event.OwnerID); err != nil {
		return respondError(c, err)
	}

	var req dto.PutExceptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Target.IsZero() {
		return badRequest(c, "target is required")
	}

	resp, err := h.eventService.PutException(eventID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *EventHandler) DeleteException(c *fiber.Ctx) error {
	eventID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.Get(eventID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), event.OwnerID); err != nil {
		return respondError(c, err)
	}

	var req dto.DeleteExceptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Target.IsZero() {
		return badRequest(c, "target is required")
	}

	if err := h.eventService.DeleteException(eventID, &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Exception removed"})
}
