package models

import (
	"time"

	"github.com/google/uuid"
)

// Credential is an issued API key. Only the bcrypt hash of the secret half
// is stored; the plaintext key is returned exactly once at creation and is
// not re-derivable afterwards.
type Credential struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SecretHash string    `gorm:"not null" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
