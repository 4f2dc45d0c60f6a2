package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CalendarEvent is one event series. A non-recurring event has an empty
// RRule and expands to exactly one occurrence through the same query path.
type CalendarEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	StartsAt    time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt      time.Time `gorm:"not null" json:"ends_at"`
	// RRule holds the client-supplied RFC 5545 recurrence string, empty
	// for one-off events. Timezone names the IANA zone the series' wall
	// clock is anchored in (timestamptz columns do not keep it).
	RRule    string         `gorm:"size:255" json:"rrule,omitempty"`
	Timezone string         `gorm:"size:64;not null;default:'UTC'" json:"timezone"`
	Tags     datatypes.JSON `gorm:"type:jsonb" json:"tags,omitempty"`
	// OverlayVersion guards exception-set writes: every overlay mutation
	// must name the version it read, making concurrent writers collide
	// instead of silently losing an update.
	OverlayVersion int       `gorm:"not null;default:0" json:"overlay_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
