package models

import "time"

type Alert struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	Code      string    `gorm:"size:64"` // product code the alert was raised for
	Type      string    `gorm:"size:20"` // "warning" | "info"
	Message   string    `gorm:"type:text"`
	CreatedAt time.Time
}
