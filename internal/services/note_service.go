package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/organizr-dev/organizr-api/internal/database"
	"github.com/organizr-dev/organizr-api/internal/dto"
	"github.com/organizr-dev/organizr-api/internal/models"
	"gorm.io/gorm"
)

var ErrNoteNotFound = errors.New("note not found")

type NoteService struct {
	db *gorm.DB
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{db: db}
}

func (s *NoteService) Create(ownerID uuid.UUID, req *dto.CreateNoteRequest) (*models.Note, error) {
	note := models.Note{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    tagsJSON(req.Tags),
	}
	if err := s.db.Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *NoteService) Get(noteID uuid.UUID) (*models.Note, error) {
	var note models.Note
	if err := s.db.First(&note, "id = ?", noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (s *NoteService) List(ownerID uuid.UUID, filter ListFilter) ([]models.Note, error) {
	q := s.db.Scopes(database.OwnedBy(ownerID)).Order("updated_at DESC")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR content ILIKE ?", like, like)
	}
	q = tagConditions(s.db, q, filter)
	var notes []models.Note
	err := q.Find(&notes).Error
	return notes, err
}

func (s *NoteService) Update(noteID uuid.UUID, req *dto.UpdateNoteRequest) (*models.Note, error) {
	note, err := s.Get(noteID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.Tags != nil {
		note.Tags = tagsJSON(req.Tags)
	}
	if err := s.db.Save(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(noteID uuid.UUID) error {
	note, err := s.Get(noteID)
	if err != nil {
		return err
	}
	return s.db.Delete(note).Error
}
