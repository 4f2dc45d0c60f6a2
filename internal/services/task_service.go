package services

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/organizr-dev/organizr-api/internal/database"
	"github.com/organizr-dev/organizr-api/internal/dto"
	"github.com/organizr-dev/organizr-api/internal/models"
	"github.com/organizr-dev/organizr-api/internal/recurrence"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

func (s *TaskService) Create(ownerID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	status := req.Status
	if status == "" {
		status = models.TaskPending
	}
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if req.RRule != "" && req.DueAt == nil {
		return nil, &recurrence.InvalidRuleError{Field: "due_at", Reason: "recurring task needs a due date"}
	}
	if req.DueAt != nil {
		if _, err := seriesRule(req.RRule, *req.DueAt, tz); err != nil {
			return nil, err
		}
	}

	task := models.Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueAt:       req.DueAt,
		RRule:       req.RRule,
		Timezone:    tz,
		Tags:        tagsJSON(req.Tags),
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Get(taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) List(ownerID uuid.UUID, status string, filter ListFilter) ([]models.Task, error) {
	if status != "" && !models.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}
	q := database.OwnedBy(ownerID)(s.db).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	q = tagConditions(s.db, q, filter)
	var tasks []models.Task
	err := q.Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) Update(taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.Get(taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *req.Status
	}
	if req.DueAt != nil {
		task.DueAt = req.DueAt
	}
	if req.RRule != nil {
		task.RRule = *req.RRule
	}
	if req.Timezone != nil {
		task.Timezone = *req.Timezone
	}
	if req.Tags != nil {
		task.Tags = tagsJSON(req.Tags)
	}

	if task.RRule != "" && task.DueAt == nil {
		return nil, &recurrence.InvalidRuleError{Field: "due_at", Reason: "recurring task needs a due date"}
	}
	if task.DueAt != nil {
		if _, err := seriesRule(task.RRule, *task.DueAt, task.Timezone); err != nil {
			return nil, err
		}
	}

	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(taskID uuid.UUID) error {
	task, err := s.Get(taskID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("series_kind = ? AND series_id = ?", models.SeriesTask, taskID).
			Delete(&models.SeriesException{}).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
}

// Occurrences expands the owner's due-dated tasks into [from, to). Tasks
// without a due date never produce occurrences.
func (s *TaskService) Occurrences(ownerID uuid.UUID, from, to time.Time) ([]dto.Occurrence, error) {
	var tasks []models.Task
	if err := s.db.Scopes(database.OwnedBy(ownerID)).Where("due_at IS NOT NULL").Find(&tasks).Error; err != nil {
		return nil, err
	}

	out := make([]dto.Occurrence, 0)
	for i := range tasks {
		occs, err := s.expand(&tasks[i], from, to)
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

func (s *TaskService) expand(task *models.Task, from, to time.Time) ([]dto.Occurrence, error) {
	rule, err := seriesRule(task.RRule, *task.DueAt, task.Timezone)
	if err != nil {
		return nil, err
	}

	overlay, byTarget, err := loadOverlay(s.db, models.SeriesTask, task.ID)
	if err != nil {
		return nil, err
	}

	tags := tagsFromJSON(task.Tags)

	planned := recurrence.Plan(rule, overlay, from, to)
	out := make([]dto.Occurrence, 0, len(planned))
	for _, occ := range planned {
		o := dto.Occurrence{
			SourceID:         task.ID,
			Kind:             models.SeriesTask,
			Title:            task.Title,
			Description:      task.Description,
			Status:           task.Status,
			StartsAt:         occ.Start,
			EndsAt:           occ.Start,
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

func (s *TaskService) PutException(taskID uuid.UUID, req *dto.PutExceptionRequest) (*dto.ExceptionResponse, error) {
	task, err := s.Get(taskID)
	if err != nil {
		return nil, err
	}
	if task.DueAt == nil {
		return nil, ErrNotOccurrence
	}

	rule, err := seriesRule(task.RRule, *task.DueAt, task.Timezone)
	if err != nil {
		return nil, err
	}
	if !rule.OccursAt(req.Target) {
		return nil, ErrNotOccurrence
	}

	entry := models.SeriesException{
		ID:             uuid.New(),
		SeriesKind:     models.SeriesTask,
		SeriesID:       taskID,
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
		if err := bumpOverlayVersion(tx, &models.Task{}, taskID, req.ExpectedVersion); err != nil {
			return err
		}
		return upsertException(tx, &entry)
	})
	if err != nil {
		return nil, err
	}

	return &dto.ExceptionResponse{
		SeriesID:       taskID,
		Target:         entry.TargetAt,
		Cancel:         entry.Cancel,
		NewStartsAt:    entry.NewStartAt,
		NewTitle:       entry.NewTitle,
		NewDescription: entry.NewDescription,
		OverlayVersion: req.ExpectedVersion + 1,
	}, nil
}

func (s *TaskService) DeleteException(taskID uuid.UUID, req *dto.DeleteExceptionRequest) error {
	if _, err := s.Get(taskID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := bumpOverlayVersion(tx, &models.Task{}, taskID, req.ExpectedVersion); err != nil {
			return err
		}
		return deleteException(tx, models.SeriesTask, taskID, req.Target)
	})
}
