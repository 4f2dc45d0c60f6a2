package services

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/organizr-dev/organizr-api/internal/database"
	"github.com/organizr-dev/organizr-api/internal/dto"
	"github.com/organizr-dev/organizr-api/internal/models"
	"github.com/organizr-dev/organizr-api/internal/recurrence"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

func (s *EventService) Create(ownerID uuid.UUID, req *dto.CreateEventRequest) (*models.CalendarEvent, error) {
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}

	endsAt := req.StartsAt
	if req.EndsAt != nil {
		endsAt = *req.EndsAt
	}
	if endsAt.Before(req.StartsAt) {
		return nil, &recurrence.InvalidRuleError{Field: "ends_at", Reason: "before starts_at"}
	}

	// Reject bad rules before anything is written.
	if _, err := seriesRule(req.RRule, req.StartsAt, tz); err != nil {
		return nil, err
	}

	event := models.CalendarEvent{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      endsAt,
		RRule:       req.RRule,
		Timezone:    tz,
		Tags:        tagsJSON(req.Tags),
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventService) Get(eventID uuid.UUID) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (s *EventService) List(ownerID uuid.UUID, filter ListFilter) ([]models.CalendarEvent, error) {
	q := database.OwnedBy(ownerID)(s.db).Order("starts_at ASC")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	q = tagConditions(s.db, q, filter)
	var events []models.CalendarEvent
	err := q.Find(&events).Error
	return events, err
}

func (s *EventService) Update(eventID uuid.UUID, req *dto.UpdateEventRequest) (*models.CalendarEvent, error) {
	event, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if req.RRule != nil {
		event.RRule = *req.RRule
	}
	if req.Timezone != nil {
		event.Timezone = *req.Timezone
	}
	if req.Tags != nil {
		event.Tags = tagsJSON(req.Tags)
	}

	if event.EndsAt.Before(event.StartsAt) {
		return nil, &recurrence.InvalidRuleError{Field: "ends_at", Reason: "before starts_at"}
	}
	if _, err := seriesRule(event.RRule, event.StartsAt, event.Timezone); err != nil {
		return nil, err
	}

	if err := s.db.Save(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Delete(eventID uuid.UUID) error {
	event, err := s.Get(eventID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("series_kind = ? AND series_id = ?", models.SeriesEvent, eventID).
			Delete(&models.SeriesException{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
}

// Occurrences materializes every effective event occurrence of the owner
// inside [from, to), across all their series, ordered by effective start
// then original start then event ID.
func (s *EventService) Occurrences(ownerID uuid.UUID, from, to time.Time) ([]dto.Occurrence, error) {
	var events []models.CalendarEvent
	if err := s.db.Scopes(database.OwnedBy(ownerID)).Find(&events).Error; err != nil {
		return nil, err
	}

	out := make([]dto.Occurrence, 0)
	for i := range events {
		occs, err := s.expand(&events[i], from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, occs...)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		if !out[i].OriginalStartsAt.Equal(out[j].OriginalStartsAt) {
			return out[i].OriginalStartsAt.Before(out[j].OriginalStartsAt)
		}
		return out[i].SourceID.String() < out[j].SourceID.String()
	})
	return out, nil
}

func (s *EventService) expand(event *models.CalendarEvent, from, to time.Time) ([]dto.Occurrence, error) {
	rule, err := seriesRule(event.RRule, event.StartsAt, event.Timezone)
	if err != nil {
		return nil, err
	}

	overlay, byTarget, err := loadOverlay(s.db, models.SeriesEvent, event.ID)
	if err != nil {
		return nil, err
	}

	duration := event.EndsAt.Sub(event.StartsAt)
	tags := tagsFromJSON(event.Tags)

	planned := recurrence.Plan(rule, overlay, from, to)
	out := make([]dto.Occurrence, 0, len(planned))
	for _, occ := range planned {
		o := dto.Occurrence{
			SourceID:         event.ID,
			Kind:             models.SeriesEvent,
			Title:            event.Title,
			Description:      event.Description,
			StartsAt:         occ.Start,
			EndsAt:           occ.Start.Add(duration),
			OriginalStartsAt: occ.Original,
			Overridden:       occ.Overridden,
			Tags:             tags,
		}
		if occ.Overridden {
			if row, ok := byTarget[occ.Original.UnixNano()]; ok {
				if row.NewTitle != nil {
					o.Title = *row.NewTitle
				}
				if row.NewDescription != nil {
					o.Description = *row.NewDescription
				}
			}
		}
		out = append(out, o)
	}
	return out, nil
}

// PutException records a cancellation or override for one occurrence.
// The target must be a real occurrence of the series, and the write only
// lands if expectedVersion still matches the series' overlay version.
func (s *EventService) PutException(eventID uuid.UUID, req *dto.PutExceptionRequest) (*dto.ExceptionResponse, error) {
	event, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}

	rule, err := seriesRule(event.RRule, event.StartsAt, event.Timezone)
	if err != nil {
		return nil, err
	}
	if !rule.OccursAt(req.Target) {
		return nil, ErrNotOccurrence
	}

	entry := models.SeriesException{
		ID:             uuid.New(),
		SeriesKind:     models.SeriesEvent,
		SeriesID:       eventID,
		TargetAt:       req.Target,
		Cancel:         req.Cancel,
		NewStartAt:     req.NewStartsAt,
		NewTitle:       req.NewTitle,
		NewDescription: req.NewDescription,
	}
	if req.Cancel {
		entry.NewStartAt = nil
		entry.NewTitle = nil
		entry.NewDescription = nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := bumpOverlayVersion(tx, &models.CalendarEvent{}, eventID, req.ExpectedVersion); err != nil {
			return err
		}
		return upsertException(tx, &entry)
	})
	if err != nil {
		return nil, err
	}

	return &dto.ExceptionResponse{
		SeriesID:       eventID,
		Target:         entry.TargetAt,
		Cancel:         entry.Cancel,
		NewStartsAt:    entry.NewStartAt,
		NewTitle:       entry.NewTitle,
		NewDescription: entry.NewDescription,
		OverlayVersion: req.ExpectedVersion + 1,
	}, nil
}

func (s *EventService) DeleteException(eventID uuid.UUID, req *dto.DeleteExceptionRequest) error {
	if _, err := s.Get(eventID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := bumpOverlayVersion(tx, &models.CalendarEvent{}, eventID, req.ExpectedVersion); err != nil {
			return err
		}
		return deleteException(tx, models.SeriesEvent, eventID, req.Target)
	})
}

func tagsJSON(tags []string) datatypes.JSON {
	if len(tags) == 0 {
		return nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func tagsFromJSON(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}
