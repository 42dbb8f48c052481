package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Database wraps a PostgreSQL connection together with its logger.
type Database struct {
	Name     string
	Logger   *slog.Logger
	Instance *sql.DB
}

// DatabaseConfiguration holds the connection parameters.
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration reads the configuration from the environment.
// A .env file in the working directory is loaded first if present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	_ = godotenv.Load()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("WORLDGRAPH_DB_HOST"),
		Port:     os.Getenv("WORLDGRAPH_DB_PORT"),
		Database: os.Getenv("WORLDGRAPH_DB_DATABASE"),
		Username: os.Getenv("WORLDGRAPH_DB_USERNAME"),
		Password: os.Getenv("WORLDGRAPH_DB_PASSWORD"),
		Schema:   os.Getenv("WORLDGRAPH_DB_SCHEMA"),
		SSLMode:  os.Getenv("WORLDGRAPH_DB_SSLMODE"),
	}
	if len(strings.TrimSpace(config.Host)) == 0 ||
		len(strings.TrimSpace(config.Port)) == 0 ||
		len(strings.TrimSpace(config.Database)) == 0 ||
		len(strings.TrimSpace(config.Username)) == 0 ||
		len(strings.TrimSpace(config.Password)) == 0 {
		return nil, fmt.Errorf("WORLDGRAPH_DB_HOST, WORLDGRAPH_DB_PORT, WORLDGRAPH_DB_DATABASE, WORLDGRAPH_DB_USERNAME and WORLDGRAPH_DB_PASSWORD environment variables must be set")
	}
	if len(strings.TrimSpace(config.Schema)) == 0 {
		config.Schema = "public"
	}
	if len(strings.TrimSpace(config.SSLMode)) == 0 {
		config.SSLMode = "require"
	}

	return config, nil
}

// ConnectionString builds the lib/pq connection string.
func (c *DatabaseConfiguration) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&search_path=%s",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
		c.Schema,
	)
}

// NewDatabase opens and pings a connection. It panics via log.Fatal if the
// database is unreachable, because nothing else can work without it.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	if logger == nil {
		logger = NewLogger(os.Stdout, slog.LevelInfo)
	}

	db, err := connect(config)
	if err != nil {
		log.Fatalf("error connecting to database %s: %v", name, err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return &Database{
		Name:     name,
		Logger:   logger,
		Instance: db,
	}
}

func connect(config *DatabaseConfiguration) (*sql.DB, error) {
	db, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		return nil, NewError("open", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, NewError("ping", err)
	}

	return db, nil
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	if d == nil || d.Instance == nil {
		return nil
	}
	return d.Instance.Close()
}
