package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"line-item-service/internal/config"
	"line-item-service/internal/database"
	"line-item-service/internal/models"
)

func newTestService(t *testing.T) (*Service, *database.GormDB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	gdb := database.NewGormDBFromDB(db)
	require.NoError(t, gdb.InitSchema())

	return NewService(gdb, nil, config.DefaultConfig()), gdb
}

func expiringItem(title string, expiry *models.ISOTime) models.LineItem {
	return models.LineItem{
		Title:       title,
		Description: "d",
		Date:        models.NewISOTime(time.Now()),
		Type:        models.TypeEvent,
		Images: models.Images{
			Thumbnail: "t",
			Feature:   models.FeatureImages{Mobile: "m", Desktop: "d"},
		},
		Audit:          &models.AuditInfo{CreatedBy: "editor-1"},
		Categories:     models.Categories{Primary: "c"},
		Attributes:     datatypes.JSON(`{"location":"x","startTime":"1","endTime":"2","organizer":"o"}`),
		ExpirationDate: expiry,
	}
}

func TestArchiveExpired(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()

	past := models.NewISOTime(time.Now().Add(-time.Hour))
	future := models.NewISOTime(time.Now().Add(time.Hour))

	created, err := gdb.BatchCreateLineItems(ctx, []models.LineItem{
		expiringItem("Expired", &past),
		expiringItem("Current", &future),
		expiringItem("Evergreen", nil),
	})
	require.NoError(t, err)

	result, err := svc.ArchiveExpired(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TargetCount)
	assert.Equal(t, 1, result.ArchivedCount)
	assert.Equal(t, 0, result.ErrorCount)
	require.Len(t, result.ArchivedItems, 1)
	assert.Equal(t, created[0].ID, result.ArchivedItems[0])

	archived, err := gdb.GetLineItemByID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, archived.Status)
	assert.True(t, archived.IsDeleted())
	require.NotNil(t, archived.Audit)
	assert.Equal(t, "system", archived.Audit.DeletedBy)
	require.NotNil(t, archived.Audit.DeletedAt)

	// The soft delete keeps the row readable.
	current, err := gdb.GetLineItemByID(ctx, created[1].ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.StatusArchived, current.Status)
}

func TestArchiveExpiredIsIdempotent(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()

	past := models.NewISOTime(time.Now().Add(-time.Hour))
	_, err := gdb.BatchCreateLineItems(ctx, []models.LineItem{expiringItem("Expired", &past)})
	require.NoError(t, err)

	first, err := svc.ArchiveExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ArchivedCount)

	second, err := svc.ArchiveExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.TargetCount)
	assert.Equal(t, 0, second.ArchivedCount)
}

func TestArchiveExpiredNothingToDo(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.ArchiveExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TargetCount)
	assert.Empty(t, result.ArchivedItems)
}

func TestParseDailyRunTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"02:00", "0 2 * * *"},
		{"14:30", "30 14 * * *"},
		{"0:05", "5 0 * * *"},
		{"garbage", "0 2 * * *"},
		{"", "0 2 * * *"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDailyRunTime(tt.in), tt.in)
	}
}
