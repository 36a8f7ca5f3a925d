package services

import (
	"fmt"
	"testing"

	"github.com/Matt9117/Intolerancies/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.HistoryEntry{}))
	return db
}

func TestRecordDeduplicatesByCode(t *testing.T) {
	h := NewHistoryService(newTestDB(t))

	require.NoError(t, h.Record(1, "8586000000001", "Chlieb", "Pekáreň", "maybe"))
	require.NoError(t, h.Record(1, "8586000000002", "Mlieko", "Tami", "avoid"))
	// re-scan of the first code with a new verdict
	require.NoError(t, h.Record(1, "8586000000001", "Chlieb", "Pekáreň", "safe"))

	entries, err := h.List(1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// the re-scan moved to the front with the latest status
	assert.Equal(t, "8586000000001", entries[0].Code)
	assert.Equal(t, "safe", entries[0].Status)
	assert.Equal(t, "8586000000002", entries[1].Code)
}

func TestListIsMostRecentFirst(t *testing.T) {
	h := NewHistoryService(newTestDB(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, h.Record(1, fmt.Sprintf("code-%d", i), "n", "b", "maybe"))
	}

	entries, err := h.List(1)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "code-4", entries[0].Code)
	assert.Equal(t, "code-0", entries[4].Code)
}

func TestHistoryIsCapped(t *testing.T) {
	h := NewHistoryService(newTestDB(t))

	for i := 0; i < HistoryCap+5; i++ {
		require.NoError(t, h.Record(1, fmt.Sprintf("code-%d", i), "n", "b", "maybe"))
	}

	entries, err := h.List(1)
	require.NoError(t, err)
	require.Len(t, entries, HistoryCap)

	// the oldest entries were trimmed, the newest survive
	assert.Equal(t, fmt.Sprintf("code-%d", HistoryCap+4), entries[0].Code)
	assert.Equal(t, "code-5", entries[HistoryCap-1].Code)
}

func TestHistoryIsPerUser(t *testing.T) {
	h := NewHistoryService(newTestDB(t))

	require.NoError(t, h.Record(1, "111", "a", "", "safe"))
	require.NoError(t, h.Record(2, "111", "a", "", "avoid"))

	mine, err := h.List(1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "safe", mine[0].Status)
}

func TestStatsCountsByStatus(t *testing.T) {
	h := NewHistoryService(newTestDB(t))

	require.NoError(t, h.Record(1, "1", "a", "", "avoid"))
	require.NoError(t, h.Record(1, "2", "b", "", "avoid"))
	require.NoError(t, h.Record(1, "3", "c", "", "safe"))

	stats, err := h.Stats(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["avoid"])
	assert.Equal(t, int64(1), stats["safe"])
	assert.Equal(t, int64(0), stats["maybe"])
}
