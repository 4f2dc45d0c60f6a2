package services

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/organizr-dev/organizr-api/internal/config"
	"github.com/organizr-dev/organizr-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureBootstrapAdmin creates the initial admin user and credential on
// first startup, guarded by a persisted flag so repeated starts (or a
// second concurrently starting instance) are no-ops. The plaintext API
// key is logged exactly once; it is not stored and cannot be reproduced.
func EnsureBootstrapAdmin(db *gorm.DB, auth *AuthService, cfg *config.Config) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Setting{Key: models.SettingBootstrapComplete, Value: "true"})
		if res.Error != nil {
			return fmt.Errorf("failed to claim bootstrap flag: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Another start already bootstrapped.
			return nil
		}

		admin := models.User{
			ID:          uuid.New(),
			DisplayName: cfg.BootstrapAdminName,
			Role:        models.RoleAdmin,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create bootstrap admin: %w", err)
		}

		apiKey, err := auth.IssueCredential(tx, admin.ID)
		if err != nil {
			return err
		}

		// Operator-visible channel: stdout log. The only disclosure ever.
		slog.Warn("bootstrap admin created, store this API key now; it will not be shown again",
			"user_id", admin.ID.String(),
			"api_key", apiKey,
		)
		return nil
	})
}
