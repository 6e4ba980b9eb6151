package config

import (
	"fmt"
	"strings"
	"testing"

	"hotel-ops-backend/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestSeedDatabaseIsIdempotent(t *testing.T) {
	db := newSeedDB(t)

	SeedDatabase(db, zerolog.Nop())
	SeedDatabase(db, zerolog.Nop())

	var staffCount, roomCount int64
	require.NoError(t, db.Model(&models.Staff{}).Count(&staffCount).Error)
	require.NoError(t, db.Model(&models.Room{}).Count(&roomCount).Error)
	assert.Equal(t, int64(1), staffCount)
	assert.Equal(t, int64(20), roomCount)

	var admin models.Staff
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).First(&admin).Error)
	assert.True(t, admin.MatchPassword("admin123"))

	// Royal rooms live on the top floor of the starter grid.
	var royal models.Room
	require.NoError(t, db.Where("room_number = ?", "401").First(&royal).Error)
	assert.Equal(t, models.RoomTypeRoyal, royal.Type)
}
