package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel-ops-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Staff{}, &models.Guest{}))
	return db
}

func protectedRouter(db *gorm.DB, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Protect(db, testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		s, _ := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"kind": string(s.Kind), "role": s.Role(), "id": s.UserID()})
	})
	r.GET("/secure", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtectResolvesStaffSession(t *testing.T) {
	db := newAuthDB(t)
	staff := models.Staff{Name: "Chef", Email: "chef@hotel.local", Password: "secret123", Role: models.RoleChef}
	require.NoError(t, db.Create(&staff).Error)

	token, err := SignToken(testSecret, SessionStaff, staff.ID, time.Hour)
	require.NoError(t, err)

	w := get(protectedRouter(db), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"staff"`)
	assert.Contains(t, w.Body.String(), `"role":"Chef"`)
}

func TestProtectResolvesGuestSession(t *testing.T) {
	db := newAuthDB(t)
	guest := models.Guest{Name: "Lena", Email: "lena@example.com", Password: "secret123"}
	require.NoError(t, db.Create(&guest).Error)

	token, err := SignToken(testSecret, SessionGuest, guest.ID, time.Hour)
	require.NoError(t, err)

	w := get(protectedRouter(db), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"guest"`)
	assert.Contains(t, w.Body.String(), `"role":"Guest"`)
}

func TestProtectRejectsMissingAndInvalidTokens(t *testing.T) {
	db := newAuthDB(t)
	r := protectedRouter(db)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "not-a-token").Code)

	// Token signed with a different secret.
	forged, err := SignToken("other-secret", SessionGuest, 1, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, forged).Code)
}

func TestProtectRejectsExpiredToken(t *testing.T) {
	db := newAuthDB(t)
	guest := models.Guest{Name: "Lena", Email: "lena@example.com", Password: "secret123"}
	require.NoError(t, db.Create(&guest).Error)

	token, err := SignToken(testSecret, SessionGuest, guest.ID, -time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(protectedRouter(db), token).Code)
}

func TestRequireRolesFiltersByRole(t *testing.T) {
	db := newAuthDB(t)
	chef := models.Staff{Name: "Chef", Email: "chef@hotel.local", Password: "secret123", Role: models.RoleChef}
	admin := models.Staff{Name: "Admin", Email: "admin@hotel.local", Password: "secret123", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&chef).Error)
	require.NoError(t, db.Create(&admin).Error)

	r := protectedRouter(db, RequireRoles(models.RoleAdmin))

	chefToken, err := SignToken(testSecret, SessionStaff, chef.ID, time.Hour)
	require.NoError(t, err)
	adminToken, err := SignToken(testSecret, SessionStaff, admin.ID, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, chefToken).Code)
	assert.Equal(t, http.StatusOK, get(r, adminToken).Code)
}

func TestRequireStaffRejectsGuests(t *testing.T) {
	db := newAuthDB(t)
	guest := models.Guest{Name: "Lena", Email: "lena@example.com", Password: "secret123"}
	require.NoError(t, db.Create(&guest).Error)

	r := protectedRouter(db, RequireStaff())

	token, err := SignToken(testSecret, SessionGuest, guest.ID, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(r, token).Code)
}
