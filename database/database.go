package database

import (
	"fmt"
	"strings"
	"time"

	"replyforge/internal/domain/accounts"
	"replyforge/internal/domain/billing"
	"replyforge/internal/domain/businesses"
	"replyforge/internal/domain/responses"
	"replyforge/internal/domain/templates"
	"replyforge/internal/domain/usage"
	"replyforge/internal/shared/logger"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// Models is every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&accounts.Account{},
		&businesses.Business{},
		&templates.Template{},
		&responses.GeneratedResponse{},
		&usage.Record{},
		&billing.Payment{},
		&billing.ProcessedWebhookEvent{},
	}
}

// Open connects to postgres, or to sqlite when the DSN starts with "sqlite:".
func Open(dsn string) (*gorm.DB, error) {
	gormLog := logger.Component("gorm")
	cfg := &gorm.Config{Logger: newGormLogger(&gormLog)}

	if strings.HasPrefix(dsn, sqlitePrefix) {
		db, err := gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite serialises writers; one connection also keeps ":memory:" databases shared
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// newGormLogger reports slow queries and real errors. Lookups that find nothing are expected and stay quiet.
func newGormLogger(w gormlogger.Writer) gormlogger.Interface {
	return gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// InitDB opens and migrates the database.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Msg("connected and migrated")
	return db, nil
}
