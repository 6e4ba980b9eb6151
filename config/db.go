package config

import (
	"fmt"
	"time"

	"hotel-ops-backend/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mysqlDSN(cfg Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
}

// gormLogWriter adapts zerolog to gorm's logger.Writer, so slow-query and
// error output lands in the same structured stream as everything else.
type gormLogWriter struct {
	log zerolog.Logger
}

func (w gormLogWriter) Printf(format string, args ...any) {
	w.log.Warn().Msgf(format, args...)
}

// ConnectDatabase opens the MySQL connection, applies migrations and seeds
// baseline records.
func ConnectDatabase(cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	dbLog := log.With().Str("component", "db").Logger()
	gormLogger := logger.New(
		gormLogWriter{log: dbLog},
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
		},
	)

	db, err := gorm.Open(mysql.Open(mysqlDSN(cfg)), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	SeedDatabase(db, dbLog)
	return db, nil
}

// Migrate applies the schema in parent-before-child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Staff{},
		&models.Guest{},
		&models.Room{},
		&models.MenuItem{},
		&models.FoodOrder{},
		&models.OrderItem{},
		&models.ServiceRequest{},
		&models.Feedback{},
		&models.Notification{},
	)
}

// SeedDatabase creates a default admin and a starter room grid when the
// corresponding tables are empty. Failures are logged, not fatal.
func SeedDatabase(db *gorm.DB, log zerolog.Logger) {
	var staffCount int64
	db.Model(&models.Staff{}).Count(&staffCount)
	if staffCount == 0 {
		admin := models.Staff{
			Name:     "Admin User",
			Email:    "admin@hotel.local",
			Password: "admin123", // hashed by the BeforeSave hook
			Role:     models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Warn().Err(err).Msg("failed to seed default admin")
		} else {
			log.Info().Str("email", admin.Email).Msg("default admin seeded")
		}
	}

	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := make([]models.Room, 0, 20)
		for floor := 1; floor <= 4; floor++ {
			for n := 1; n <= 5; n++ {
				typ := models.RoomTypeStandard
				switch floor {
				case 2:
					typ = models.RoomTypeDeluxe
				case 3:
					typ = models.RoomTypeSuite
				case 4:
					typ = models.RoomTypeRoyal
				}
				rooms = append(rooms, models.Room{
					RoomNumber: fmt.Sprintf("%d%02d", floor, n),
					Type:       typ,
					Status:     models.RoomStatusAvailable,
					Floor:      floor,
				})
			}
		}
		if err := db.Create(&rooms).Error; err != nil {
			log.Warn().Err(err).Msg("failed to seed rooms")
		} else {
			log.Info().Int("count", len(rooms)).Msg("rooms seeded")
		}
	}
}
