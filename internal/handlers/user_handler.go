package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/organizr-dev/organizr-api/internal/dto"
	"github.com/organizr-dev/organizr-api/internal/middleware"
	"github.com/organizr-dev/organizr-api/internal/models"
	"github.com/organizr-dev/organizr-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create provisions a user and returns their API key. The key appears in
// this response only; it cannot be fetched again.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.DisplayName == "" {
		return badRequest(c, "display_name is required")
	}

	user, apiKey, err := h.userService.CreateUser(req.DisplayName)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateUserResponse{
		UserID: user.ID,
		APIKey: apiKey,
	})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers()
	if err != nil {
		return respondError(c, err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(out)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	if err := services.Authorize(middleware.GetIdentity(c), userID); err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUserResponse(user))
}

// Me returns the caller's own profile resolved from their API key.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return respondError(c, services.ErrUnauthenticated)
	}

	user, err := h.userService.GetUser(identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUserResponse(user))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	if err := services.Authorize(middleware.GetIdentity(c), userID); err != nil {
		return respondError(c, err)
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetUTCOffset(userID, req.UTCOffsetMinutes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUserResponse(user))
}

// RotateCredential invalidates every key the user holds and issues a
// fresh one, disclosed once in the response.
func (h *UserHandler) RotateCredential(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	if err := services.Authorize(middleware.GetIdentity(c), userID); err != nil {
		return respondError(c, err)
	}

	apiKey, err := h.userService.RotateCredential(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RotateCredentialResponse{UserID: userID, APIKey: apiKey})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	userID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	if err := services.Authorize(middleware.GetIdentity(c), userID); err != nil {
		return respondError(c, err)
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted"})
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:               u.ID,
		DisplayName:      u.DisplayName,
		Role:             u.Role,
		UTCOffsetMinutes: u.UTCOffsetMinutes,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
