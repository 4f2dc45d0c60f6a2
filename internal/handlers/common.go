package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/organizr-dev/organizr-api/internal/dto"
	"github.com/organizr-dev/organizr-api/internal/middleware"
	"github.com/organizr-dev/organizr-api/internal/recurrence"
	"github.com/organizr-dev/organizr-api/internal/services"
)

// respondError maps service sentinel errors to HTTP statuses. Unknown
// errors become an opaque 500 so internals never leak to clients.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		status, message = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrAdminImmutable):
		status, message = fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrNoteNotFound),
		errors.Is(err, services.ErrExceptionNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrConflictingOverlay):
		status, message = fiber.StatusConflict, err.Error()
	case errors.Is(err, recurrence.ErrInvalidRule),
		errors.Is(err, services.ErrNotOccurrence),
		errors.Is(err, services.ErrInvalidTaskStatus):
		status, message = fiber.StatusBadRequest, err.Error()
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// actorID resolves whose entities this request targets: the caller, or
// the for_user query param when the caller is allowed to impersonate.
func actorID(c *fiber.Ctx) (uuid.UUID, error) {
	var forUser *uuid.UUID
	if raw := c.Query("for_user"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, &recurrence.InvalidRuleError{Field: "for_user", Reason: "not a UUID"}
		}
		forUser = &parsed
	}
	return services.ResolveActor(middleware.GetIdentity(c), forUser)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// parseListFilter reads the shared listing query params: search, a
// comma-separated tags list, and match_mode (any, the default, or all).
func parseListFilter(c *fiber.Ctx) services.ListFilter {
	filter := services.ListFilter{
		Search:   c.Query("search"),
		MatchAll: c.Query("match_mode", "any") == "all",
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}
	return filter
}

// parseWindow reads the required from/to query params of an occurrence
// query as RFC 3339 instants and checks the window is non-empty.
func parseWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, &recurrence.InvalidRuleError{Field: "from", Reason: "missing or not RFC 3339"}
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, &recurrence.InvalidRuleError{Field: "to", Reason: "missing or not RFC 3339"}
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, &recurrence.InvalidRuleError{Field: "to", Reason: "window is empty"}
	}
	return from, to, nil
}
