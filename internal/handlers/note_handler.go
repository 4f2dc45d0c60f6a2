package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/organizr-dev/organizr-api/internal/dto"
	"github.com/organizr-dev/organizr-api/internal/middleware"
	"github.com/organizr-dev/organizr-api/internal/services"
)

type NoteHandler struct {
	noteService *services.NoteService
}

func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) Create(c *fiber.Ctx) error {
	owner, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}

	note, err := h.noteService.Create(owner, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (h *NoteHandler) List(c *fiber.Ctx) error {
	owner, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}

	notes, err := h.noteService.List(owner, parseListFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notes)
}

func (h *NoteHandler) Get(c *fiber.Ctx) error {
	noteID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid note ID")
	}

	note, err := h.noteService.Get(noteID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), note.OwnerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(note)
}

func (h *NoteHandler) Update(c *fiber.Ctx) error {
	noteID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid note ID")
	}

	note, err := h.noteService.Get(noteID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), note.OwnerID); err != nil {
		return respondError(c, err)
	}

	var req dto.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.noteService.Update(noteID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	noteID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid note ID")
	}

	note, err := h.noteService.Get(noteID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.Authorize(middleware.GetIdentity(c), note.OwnerID); err != nil {
		return respondError(c, err)
	}

	if err := h.noteService.Delete(noteID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Note deleted"})
}
