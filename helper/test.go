package helper

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDbName     = "database"
	testDbUser     = "user"
	testDbPassword = "password"
)

// MustStartPostgresContainer starts a throwaway PostgreSQL container and
// returns its terminate function and mapped port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(testDbName),
		postgres.WithUsername(testDbUser),
		postgres.WithPassword(testDbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start container: %w", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get container port: %w", err)
	}

	return pgContainer.Terminate, port.Port(), nil
}

// SetTestDatabaseConfigEnvs points the configuration env vars at the test container.
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("WORLDGRAPH_DB_HOST", "localhost")
	t.Setenv("WORLDGRAPH_DB_PORT", port)
	t.Setenv("WORLDGRAPH_DB_DATABASE", testDbName)
	t.Setenv("WORLDGRAPH_DB_USERNAME", testDbUser)
	t.Setenv("WORLDGRAPH_DB_PASSWORD", testDbPassword)
	t.Setenv("WORLDGRAPH_DB_SCHEMA", "public")
	t.Setenv("WORLDGRAPH_DB_SSLMODE", "disable")
}

// NewTestDatabase connects to the test container with a silent logger.
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := connect(config)
	if err != nil {
		log.Fatalf("error connecting to test database: %v", err)
	}

	return &Database{
		Name:     "test",
		Logger:   logger,
		Instance: db,
	}
}
