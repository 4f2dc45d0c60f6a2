package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	DisplayName string `json:"display_name"`
}

// CreateUserResponse carries the only disclosure of the new user's API
// key. It is not retrievable afterwards.
type CreateUserResponse struct {
	UserID uuid.UUID `json:"user_id"`
	APIKey string    `json:"api_key"`
}

type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	DisplayName      string    `json:"display_name"`
	Role             string    `json:"role"`
	UTCOffsetMinutes *int      `json:"utc_offset_minutes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type UpdateUserRequest struct {
	UTCOffsetMinutes int `json:"utc_offset_minutes"`
}

type RotateCredentialResponse struct {
	UserID uuid.UUID `json:"user_id"`
	APIKey string    `json:"api_key"`
}
