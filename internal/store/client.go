package store

import (
	"fmt"
	"net/url"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fixtures/config"
)

type Client struct {
	db      *gorm.DB
	dialect string
}

type Options struct {
	// ReadOnly opens the store so that no statement can modify it.
	ReadOnly bool
}

// Open connects to the store described by cfg. Foreign key enforcement is
// always on.
func Open(cfg config.StoreConfig, opts Options) (*Client, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.Path, opts.ReadOnly))
	case config.DriverPostgres:
		dialector = postgres.Open(postgresDSN(cfg.Postgres, opts.ReadOnly))
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// One connection: statements run strictly one at a time and the
	// per-connection sqlite pragmas stay in effect.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Client{db: db, dialect: cfg.Driver}, nil
}

func sqliteDSN(path string, readOnly bool) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	if readOnly {
		q.Set("mode", "ro")
	}
	return "file:" + path + "?" + q.Encode()
}

func postgresDSN(cfg config.PostgresConfig, readOnly bool) string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port, cfg.SSLMode)
	if readOnly {
		dsn += " default_transaction_read_only=on"
	}
	return dsn
}

func (c *Client) Dialect() string {
	return c.dialect
}

func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
