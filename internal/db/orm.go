package db

import (
	"context"
	"fmt"
	"time"

	"textile-qc/inspections/internal/config"
	"textile-qc/inspections/internal/logging"
	gormModels "textile-qc/inspections/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store bundles the ORM handle and a sqlx view over the same connection pool.
type Store struct {
	ORM *gorm.DB
	SQL *sqlx.DB
}

// Open connects to the configured driver. Both handles share one *sql.DB.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	gormCfg := &gorm.Config{Logger: newGormLogger()}

	switch cfg.DBDriver {
	case config.DriverSQLite:
		orm, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return NewStore(orm, "sqlite3")

	default:
		conn, err := ConnectPostgres(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		orm, err := gorm.Open(postgres.New(postgres.Config{Conn: conn.DB}), gormCfg)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return &Store{ORM: orm, SQL: conn}, nil
	}
}

// NewStore wraps an already opened GORM handle. driverName is the
// database/sql driver name sqlx should assume for bind variables.
func NewStore(orm *gorm.DB, driverName string) (*Store, error) {
	raw, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	if driverName == "sqlite3" {
		// sqlite serializes writers; a single connection also keeps :memory: databases intact
		raw.SetMaxOpenConns(1)
	}
	return &Store{ORM: orm, SQL: sqlx.NewDb(raw, driverName)}, nil
}

// Migrate creates or extends the inspections table.
func (s *Store) Migrate() error {
	if err := s.ORM.AutoMigrate(&gormModels.Inspection{}); err != nil {
		return fmt.Errorf("failed to migrate inspections: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.SQL.Close()
}

// zapWriter routes GORM's logger through the global zap logger.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logging.GetLogger().Warnf(format, args...)
}

func newGormLogger() logger.Interface {
	return logger.New(zapWriter{}, logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
