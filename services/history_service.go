package services

import (
	"time"

	"github.com/Matt9117/Intolerancies/models"

	"gorm.io/gorm"
)

// HistoryCap bounds the per-user scan history; the trim keeps the most
// recent entries.
const HistoryCap = 50

type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Record upserts the scan into the user's history. A re-scan of the same
// code replaces the old row and moves it to the front via a fresh timestamp,
// so the history never holds duplicate codes.
func (h *HistoryService) Record(userID uint, code, name, brand, status string) error {
	now := time.Now()

	var existing models.HistoryEntry
	err := h.db.Where("user_id = ? AND code = ?", userID, code).First(&existing).Error
	if err == nil {
		existing.Name = name
		existing.Brand = brand
		existing.Status = status
		existing.ScannedAt = now
		if err := h.db.Save(&existing).Error; err != nil {
			return err
		}
		return h.trim(userID)
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	entry := models.HistoryEntry{
		UserID:    userID,
		Code:      code,
		Name:      name,
		Brand:     brand,
		Status:    status,
		ScannedAt: now,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		return err
	}
	return h.trim(userID)
}

func (h *HistoryService) trim(userID uint) error {
	var count int64
	if err := h.db.Model(&models.HistoryEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count <= HistoryCap {
		return nil
	}

	var stale []models.HistoryEntry
	if err := h.db.
		Where("user_id = ?", userID).
		Order("scanned_at ASC").
		Limit(int(count) - HistoryCap).
		Find(&stale).Error; err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(stale))
	for _, e := range stale {
		ids = append(ids, e.ID)
	}
	return h.db.Delete(&models.HistoryEntry{}, ids).Error
}

// List returns the user's history, most recent first.
func (h *HistoryService) List(userID uint) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := h.db.
		Where("user_id = ?", userID).
		Order("scanned_at DESC").
		Limit(HistoryCap).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats counts history entries per verdict status.
func (h *HistoryService) Stats(userID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := h.db.Model(&models.HistoryEntry{}).
		Select("status, count(*) as total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := map[string]int64{"safe": 0, "avoid": 0, "maybe": 0}
	for _, r := range rows {
		stats[r.Status] = r.Total
	}
	return stats, nil
}
