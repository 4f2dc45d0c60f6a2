package models

import "time"

// Setting is a persisted key/value flag, e.g. the bootstrap-complete
// marker that keeps the initial admin from being recreated.
type Setting struct {
	Key       string    `gorm:"size:64;primaryKey" json:"key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

const SettingBootstrapComplete = "bootstrap_complete"
