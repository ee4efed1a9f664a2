package db

import (
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/greenevillebjj/matdesk/internal/models"
)

var conn *gorm.DB

// Path returns the sqlite file location, DB_PATH env or the default
// matdesk.db in the working directory.
func Path() string {
	if p := os.Getenv("DB_PATH"); p != "" {
		return p
	}
	return "matdesk.db"
}

// Init opens the store and migrates the schema. A failure here is
// fatal to the session: no screen can function without the store.
func Init() error {
	var err error
	dsn := Path() + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	conn, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Checkin{},
		&models.Promotion{},
		&models.EmergencyContact{},
	); err != nil {
		return err
	}

	// Composite indexes that GORM doesn't auto-create from struct tags.
	// The engine's hot queries are "latest checkin per user" and
	// "latest promotion per user".
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_checkins_user_checked   ON checkins(user_id, checked_at)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_promotions_user_created ON promotions(user_id, created_at)")

	zap.S().Infow("database ready", "path", Path())
	return nil
}

func Conn() *gorm.DB {
	return conn
}
