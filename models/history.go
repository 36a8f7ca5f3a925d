package models

import "time"

// HistoryEntry is the per-user scan history row. One row per (user, code):
// a re-scan of the same code replaces the old row and moves to the front
// via a fresh ScannedAt.
type HistoryEntry struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	UserID    uint   `gorm:"uniqueIndex:idx_history_user_code" json:"-"`
	Code      string `gorm:"size:64;uniqueIndex:idx_history_user_code" json:"code"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Status    string `gorm:"size:8" json:"status"` // "safe" | "avoid" | "maybe"
	ScannedAt time.Time `gorm:"index" json:"scanned_at"`
}
