package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/organizr-dev/organizr-api/internal/models"
	"github.com/organizr-dev/organizr-api/internal/recurrence"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrConflictingOverlay means a concurrent writer changed the series'
	// exception set between this request's read and write. The caller must
	// re-read and retry with the current version.
	ErrConflictingOverlay = errors.New("overlay modified concurrently, re-read and retry")

	// ErrNotOccurrence rejects exception targets that are not a real
	// occurrence of the series.
	ErrNotOccurrence = errors.New("target instant is not an occurrence of this series")

	ErrExceptionNotFound = errors.New("no exception at that instant")
)

// seriesRule builds the validated expansion rule for a stored series: the
// parsed RRULE anchored at start in the series' zone, or the degenerate
// single-occurrence rule when no RRULE is set.
func seriesRule(rruleStr string, start time.Time, timezone string) (recurrence.Rule, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return recurrence.Rule{}, &recurrence.InvalidRuleError{Field: "timezone", Reason: err.Error()}
	}
	anchored := start.In(loc)
	if rruleStr == "" {
		return recurrence.Single(anchored).Validate()
	}
	return recurrence.ParseRRule(rruleStr, anchored)
}

// loadOverlay fetches a series' exception set and indexes the rows by
// original target instant for field merging after planning.
func loadOverlay(db *gorm.DB, kind string, seriesID uuid.UUID) (recurrence.Overlay, map[int64]models.SeriesException, error) {
	var rows []models.SeriesException
	err := db.Where("series_kind = ? AND series_id = ?", kind, seriesID).
		Order("updated_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	entries := make([]recurrence.Exception, 0, len(rows))
	byTarget := make(map[int64]models.SeriesException, len(rows))
	for _, row := range rows {
		entries = append(entries, recurrence.Exception{
			Target:   row.TargetAt,
			Cancel:   row.Cancel,
			NewStart: row.NewStartAt,
		})
		byTarget[row.TargetAt.UnixNano()] = row
	}
	return recurrence.NewOverlay(entries), byTarget, nil
}

// bumpOverlayVersion serializes overlay writes per series: the update only
// lands when the caller still holds the version it read, so two concurrent
// writers cannot silently drop each other's entry.
func bumpOverlayVersion(tx *gorm.DB, model interface{}, seriesID uuid.UUID, expected int) error {
	res := tx.Model(model).
		Where("id = ? AND overlay_version = ?", seriesID, expected).
		Update("overlay_version", expected+1)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflictingOverlay
	}
	return nil
}

// upsertException writes one overlay entry keyed by (kind, series, target);
// a later write for the same target replaces the earlier one.
func upsertException(tx *gorm.DB, entry *models.SeriesException) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "series_kind"}, {Name: "series_id"}, {Name: "target_at"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"cancel", "new_start_at", "new_title", "new_description", "updated_at",
		}),
	}).Create(entry).Error
}

func deleteException(tx *gorm.DB, kind string, seriesID uuid.UUID, target time.Time) error {
	res := tx.Where("series_kind = ? AND series_id = ? AND target_at = ?", kind, seriesID, target).
		Delete(&models.SeriesException{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExceptionNotFound
	}
	return nil
}
