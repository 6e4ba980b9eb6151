package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"hotel-ops-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv carries per-test fixtures shared by the service constructors.
type testEnv struct {
	db *gorm.DB
}

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Staff{},
		&models.Guest{},
		&models.Room{},
		&models.MenuItem{},
		&models.FoodOrder{},
		&models.OrderItem{},
		&models.ServiceRequest{},
		&models.Feedback{},
		&models.Notification{},
	))
	return db
}

type emitted struct {
	Event   string
	Channel string
	Payload any
}

// fakeEmitter records emissions instead of fanning them out.
type fakeEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (f *fakeEmitter) Emit(event string, payload any, channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emitted{Event: event, Channel: channel, Payload: payload})
}

func (f *fakeEmitter) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// failRoomUpdates makes every UPDATE against the rooms table fail, forcing a
// rollback of any transaction that touches a room.
func failRoomUpdates(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Callback().Update().Before("gorm:update").Register("test_fail_room_updates", func(tx *gorm.DB) {
		if tx.Statement.Table == "rooms" {
			tx.AddError(errors.New("induced room update failure"))
		}
	})
	require.NoError(t, err)
}

func seedGuest(t *testing.T, db *gorm.DB, email string) *models.Guest {
	t.Helper()
	guest := models.Guest{
		Name:     "Test Guest",
		Email:    email,
		Phone:    "0501234567",
		Password: "secret123",
	}
	require.NoError(t, db.Create(&guest).Error)
	return &guest
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price float64) *models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		Name:     name,
		Price:    price,
		Category: "Mains",
		IsActive: true,
	}
	require.NoError(t, db.Create(&item).Error)
	return &item
}
