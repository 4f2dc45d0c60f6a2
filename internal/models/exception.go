package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SeriesEvent = "event"
	SeriesTask  = "task"
)

// SeriesException is one overlay entry of a recurring series: either a
// cancellation (Cancel) or an override retiming and/or re-describing a
// single occurrence. TargetAt is the original candidate instant and is
// the entry's identity: the unique index makes a later write for the
// same instant replace the earlier one.
type SeriesException struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SeriesKind string    `gorm:"size:10;not null;uniqueIndex:idx_series_exception_target" json:"series_kind"`
	SeriesID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_series_exception_target" json:"series_id"`
	TargetAt   time.Time `gorm:"not null;uniqueIndex:idx_series_exception_target" json:"target_at"`

	Cancel         bool       `gorm:"not null;default:false" json:"cancel"`
	NewStartAt     *time.Time `json:"new_start_at,omitempty"`
	NewTitle       *string    `gorm:"size:255" json:"new_title,omitempty"`
	NewDescription *string    `gorm:"type:text" json:"new_description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
