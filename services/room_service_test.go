package services

import (
	"testing"

	"hotel-ops-backend/models"
	"hotel-ops-backend/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRoomEnv(t *testing.T) (*RoomService, *fakeEmitter, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	emitter := &fakeEmitter{}
	notifications := NewNotificationService(db, emitter)
	return NewRoomService(db, emitter, notifications), emitter, db
}

func TestCreateRoomRejectsDuplicateNumber(t *testing.T) {
	rooms, _, _ := newRoomEnv(t)

	_, err := rooms.Create("204", models.RoomTypeDeluxe, 2, "")
	require.NoError(t, err)

	_, err = rooms.Create("204", models.RoomTypeStandard, 2, "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateRoomValidatesTypeAndStatus(t *testing.T) {
	rooms, _, _ := newRoomEnv(t)

	_, err := rooms.Create("204", "Penthouse", 2, "")
	assert.True(t, IsValidation(err))

	_, err = rooms.Create("204", models.RoomTypeDeluxe, 2, "Haunted")
	assert.True(t, IsValidation(err))
}

func TestUpdateStatusToAvailableChecksGuestOut(t *testing.T) {
	rooms, emitter, db := newRoomEnv(t)

	guest := seedGuest(t, db, "omar@example.com")
	number := "204"
	guest.RoomNumber = &number
	guest.IsCheckedIn = true
	require.NoError(t, db.Save(guest).Error)

	room := models.Room{
		RoomNumber:     number,
		Type:           models.RoomTypeStandard,
		Status:         models.RoomStatusOccupied,
		Floor:          2,
		CurrentGuestID: &guest.ID,
	}
	require.NoError(t, db.Create(&room).Error)

	updated, err := rooms.UpdateStatus(room.ID, models.RoomStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, updated.Status)
	assert.Nil(t, updated.CurrentGuestID)

	var gotGuest models.Guest
	require.NoError(t, db.First(&gotGuest, guest.ID).Error)
	assert.False(t, gotGuest.IsCheckedIn)
	assert.Nil(t, gotGuest.RoomNumber)

	assert.Equal(t, 1, emitter.count(realtime.EventGuestCheckedOut))
	assert.Equal(t, 1, emitter.count(realtime.EventRoomStatusChanged))
}

func TestUpdateStatusRollbackEmitsNothing(t *testing.T) {
	rooms, emitter, db := newRoomEnv(t)

	guest := seedGuest(t, db, "omar@example.com")
	number := "204"
	guest.RoomNumber = &number
	guest.IsCheckedIn = true
	require.NoError(t, db.Save(guest).Error)

	room := models.Room{
		RoomNumber:     number,
		Type:           models.RoomTypeStandard,
		Status:         models.RoomStatusOccupied,
		Floor:          2,
		CurrentGuestID: &guest.ID,
	}
	require.NoError(t, db.Create(&room).Error)

	failRoomUpdates(t, db)
	_, err := rooms.UpdateStatus(room.ID, models.RoomStatusAvailable)
	require.Error(t, err)

	// The guest clear succeeded inside the transaction but must roll back
	// with it, and nothing may be announced.
	assert.Equal(t, 0, emitter.count(realtime.EventGuestCheckedOut))
	assert.Equal(t, 0, emitter.count(realtime.EventRoomStatusChanged))

	var gotGuest models.Guest
	require.NoError(t, db.First(&gotGuest, guest.ID).Error)
	assert.True(t, gotGuest.IsCheckedIn)
	assert.NotNil(t, gotGuest.RoomNumber)

	var gotRoom models.Room
	require.NoError(t, db.First(&gotRoom, room.ID).Error)
	assert.Equal(t, models.RoomStatusOccupied, gotRoom.Status)
	assert.NotNil(t, gotRoom.CurrentGuestID)
}

func TestUpdateStatusCleaningNotifiesHousekeeping(t *testing.T) {
	rooms, _, db := newRoomEnv(t)

	room, err := rooms.Create("204", models.RoomTypeStandard, 2, "")
	require.NoError(t, err)

	_, err = rooms.UpdateStatus(room.ID, models.RoomStatusCleaning)
	require.NoError(t, err)

	var notifications []models.Notification
	require.NoError(t, db.Where("role = ?", models.RoleHousekeeping).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, "/dashboard/rooms", notifications[0].Link)
}

func TestDeleteRoom(t *testing.T) {
	rooms, _, _ := newRoomEnv(t)

	room, err := rooms.Create("204", models.RoomTypeStandard, 2, "")
	require.NoError(t, err)

	require.NoError(t, rooms.Delete(room.ID))
	assert.ErrorIs(t, rooms.Delete(room.ID), ErrNotFound)
	_, err = rooms.Get(room.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
