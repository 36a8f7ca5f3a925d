package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UserID    string `gorm:"type:varchar(64);uniqueIndex"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	FirstName string
	LastName  string

	// Comma-separated intolerance category keys, e.g. "gluten,milk_protein".
	// Empty means the verdict engine falls back to its default subset.
	Intolerances string

	ProfilePicture string
	MFAEnabled     bool
	MFACode        string
	ResetToken     string
	ResetTokenExp  time.Time
	Disabled       bool
	Onboarded      bool
}

// IntoleranceList splits the stored CSV into clean lowercase keys.
func (u *User) IntoleranceList() []string {
	if strings.TrimSpace(u.Intolerances) == "" {
		return nil
	}
	parts := strings.Split(u.Intolerances, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
