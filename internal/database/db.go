package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Supported driver names, as registered by go-sql-driver/mysql and lib/pq.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config carries the connection settings of the relational backend.
type Config struct {
	Driver string
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
}

// DSN builds the driver specific data source name.
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case DriverMySQL, "":
		auth := c.User
		if c.Pass != "" {
			auth = fmt.Sprintf("%s:%s", c.User, c.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, c.Host, c.Port, c.Name), nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.Host, c.Port, c.User, c.Name)
		if c.Pass != "" {
			dsn += " password=" + c.Pass
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", c.Driver)
	}
}

// Open connects to MySQL or PostgreSQL and verifies the connection.
func Open(ctx context.Context, c Config) (*sqlx.DB, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	driver := c.Driver
	if driver == "" {
		driver = DriverMySQL
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
