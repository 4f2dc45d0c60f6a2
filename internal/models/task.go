package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

// Task is a to-do item, optionally repeating on its due instant. Status
// lives on the task and is orthogonal to recurrence: completing the task
// never cancels the series.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       *User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	DueAt       *time.Time `gorm:"index" json:"due_at,omitempty"`

	RRule          string         `gorm:"size:255" json:"rrule,omitempty"`
	Timezone       string         `gorm:"size:64;not null;default:'UTC'" json:"timezone"`
	Tags           datatypes.JSON `gorm:"type:jsonb" json:"tags,omitempty"`
	OverlayVersion int            `gorm:"not null;default:0" json:"overlay_version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}
