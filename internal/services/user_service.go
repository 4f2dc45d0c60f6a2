package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/organizr-dev/organizr-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrAdminImmutable = errors.New("admin users cannot be deleted")
)

type UserService struct {
	db   *gorm.DB
	auth *AuthService
}

func NewUserService(db *gorm.DB, auth *AuthService) *UserService {
	return &UserService{db: db, auth: auth}
}

// CreateUser provisions a regular user together with their first
// credential. The returned API key is the one-time plaintext disclosure.
func (s *UserService) CreateUser(displayName string) (*models.User, string, error) {
	user := models.User{
		ID:          uuid.New(),
		DisplayName: displayName,
		Role:        models.RoleUser,
	}

	var apiKey string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		var err error
		apiKey, err = s.auth.IssueCredential(tx, user.ID)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return &user, apiKey, nil
}

func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	err := s.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

func (s *UserService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) SetUTCOffset(userID uuid.UUID, minutes int) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("utc_offset_minutes", minutes).Error; err != nil {
		return nil, err
	}
	user.UTCOffsetMinutes = &minutes
	return user, nil
}

// RotateCredential revokes every credential the user holds and issues a
// fresh one, returned in plaintext once.
func (s *UserService) RotateCredential(userID uuid.UUID) (string, error) {
	if _, err := s.GetUser(userID); err != nil {
		return "", err
	}

	var apiKey string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Credential{}).Error; err != nil {
			return err
		}
		var err error
		apiKey, err = s.auth.IssueCredential(tx, userID)
		return err
	})
	return apiKey, err
}

// DeleteUser removes a user and everything they own. Admin accounts are
// refused; there must always be a way back in.
func (s *UserService) DeleteUser(userID uuid.UUID) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return ErrAdminImmutable
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var eventIDs []uuid.UUID
		if err := tx.Model(&models.CalendarEvent{}).Where("owner_id = ?", userID).
			Pluck("id", &eventIDs).Error; err != nil {
			return err
		}
		var taskIDs []uuid.UUID
		if err := tx.Model(&models.Task{}).Where("owner_id = ?", userID).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(eventIDs) > 0 {
			if err := tx.Where("series_kind = ? AND series_id IN ?", models.SeriesEvent, eventIDs).
				Delete(&models.SeriesException{}).Error; err != nil {
				return err
			}
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("series_kind = ? AND series_id IN ?", models.SeriesTask, taskIDs).
				Delete(&models.SeriesException{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Credential{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", userID).Delete(&models.CalendarEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", userID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", userID).Delete(&models.Note{}).Error; err != nil {
			return err
		}

		return tx.Delete(user).Error
	})
}
