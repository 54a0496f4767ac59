// Package containers starts the throwaway services the integration tests run
// against.
package containers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultImage = "postgres:16.3-alpine"
	dbName       = "fantasy_query"
	dbUser       = "fquser"
	dbPassword   = "secret"

	// imageEnv overrides the postgres image, e.g. to match a production server.
	imageEnv = "POSTGRES_TEST_IMAGE"
)

// DBContainer is an empty PostgreSQL database. db.New creates the token
// schema on connect.
type DBContainer struct {
	container *postgres.PostgresContainer
}

func NewDBContainer(ctx context.Context) (*DBContainer, error) {
	image := os.Getenv(imageEnv)
	if image == "" {
		image = defaultImage
	}

	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("error starting %s: %w", image, err)
	}
	return &DBContainer{container: container}, nil
}

func (c *DBContainer) Shutdown(ctx context.Context) error {
	if err := c.container.Terminate(ctx); err != nil {
		return fmt.Errorf("error terminating container: %w", err)
	}
	return nil
}

// ConnectionString returns a pgx connection string for the container. TLS is
// disabled since the container has no certificate.
func (c *DBContainer) ConnectionString(ctx context.Context) (string, error) {
	return c.container.ConnectionString(ctx, "sslmode=disable")
}
