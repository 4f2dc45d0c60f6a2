package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	RRule       string     `json:"rrule,omitempty"`
	Timezone    string     `json:"timezone,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	RRule       *string    `json:"rrule"`
	Timezone    *string    `json:"timezone"`
	Tags        []string   `json:"tags"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	RRule       string     `json:"rrule,omitempty"`
	Timezone    string     `json:"timezone,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueAt       *time.Time `json:"due_at"`
	RRule       *string    `json:"rrule"`
	Timezone    *string    `json:"timezone"`
	Tags        []string   `json:"tags"`
}

type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

type UpdateNoteRequest struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

// PutExceptionRequest upserts one overlay entry of a series. Target names
// the original occurrence instant (the entry's identity). Either Cancel
// is set, or any of the override fields. ExpectedVersion must carry the
// overlay_version the client last read; a stale value is rejected so
// concurrent edits cannot silently overwrite each other.
type PutExceptionRequest struct {
	Target          time.Time  `json:"target"`
	Cancel          bool       `json:"cancel,omitempty"`
	NewStartsAt     *time.Time `json:"new_starts_at,omitempty"`
	NewTitle        *string    `json:"new_title,omitempty"`
	NewDescription  *string    `json:"new_description,omitempty"`
	ExpectedVersion int        `json:"expected_version"`
}

type DeleteExceptionRequest struct {
	Target          time.Time `json:"target"`
	ExpectedVersion int       `json:"expected_version"`
}

type ExceptionResponse struct {
	SeriesID       uuid.UUID  `json:"series_id"`
	Target         time.Time  `json:"target"`
	Cancel         bool       `json:"cancel"`
	NewStartsAt    *time.Time `json:"new_starts_at,omitempty"`
	NewTitle       *string    `json:"new_title,omitempty"`
	NewDescription *string    `json:"new_description,omitempty"`
	OverlayVersion int        `json:"overlay_version"`
}

// Occurrence is one effective occurrence inside a queried window.
type Occurrence struct {
	SourceID         uuid.UUID `json:"source_id"`
	Kind             string    `json:"kind"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Status           string    `json:"status,omitempty"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at,omitempty"`
	OriginalStartsAt time.Time `json:"original_starts_at"`
	Overridden       bool      `json:"overridden"`
	Tags             []string  `json:"tags,omitempty"`
}
