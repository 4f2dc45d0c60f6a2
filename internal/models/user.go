package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	Role        string    `gorm:"size:20;not null;default:'user'" json:"role"`
	// Minutes east of UTC, used by clients to render occurrence times.
	UTCOffsetMinutes *int      `json:"utc_offset_minutes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
