package database

import (
	"database/sql"
	"fmt"

	"github.com/karayel/tabled/internal/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Connection is the process-wide database handle: opened at startup,
// injected into the engine, closed at shutdown.
type Connection struct {
	DB     *sql.DB
	Config *config.Config
}

func NewConnection(cfg *config.Config) (*Connection, error) {
	driver, err := driverFor(cfg.Database.Type)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, cfg.GetConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.Database.Type == "sqlite" {
		// The modernc driver serializes writes per connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}

	return &Connection{
		DB:     db,
		Config: cfg,
	}, nil
}

func (c *Connection) Close() error {
	return c.DB.Close()
}

func (c *Connection) GetDatabaseName() string {
	if c.Config.Database.Type == "sqlite" {
		return c.Config.Database.Path
	}
	return c.Config.Database.Database
}

func driverFor(dbType string) (string, error) {
	switch dbType {
	case "", "postgres":
		return "postgres", nil
	case "sqlite":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", dbType)
	}
}
