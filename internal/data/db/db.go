package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

// Service is the handle the app holds for whichever driver is configured.
type Service interface {
	DB() *gorm.DB
	Close() error
}

// Open picks a driver by name. "postgres" is the default.
func Open(logg *logger.Logger, driver, dsn string) (Service, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "postgres", "postgresql":
		if dsn == "" {
			dsn = PostgresDSN()
		}
		return NewPostgresService(logg, dsn)
	case "sqlite", "sqlite3":
		return NewSQLiteService(logg, dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}
