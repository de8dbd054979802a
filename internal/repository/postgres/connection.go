package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Documents        string
	DocumentVersions string
	Categories       string
	IngestQueue      string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Documents:        fmt.Sprintf("%sdocuments", prefix),
		DocumentVersions: fmt.Sprintf("%sdocument_versions", prefix),
		Categories:       fmt.Sprintf("%scategories", prefix),
		IngestQueue:      fmt.Sprintf("%singest_queue", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Dynamic table names interpolated via fmt.Sprintf are safe with prepared
// statements: the SQL string is assembled before it is sent, so each prefix
// gets its own statements.
//
// Transaction poolers (PgBouncer on port 6543) do not support prepared
// statements; when that port is detected and the user did not override the
// mode in the connection string, cache_describe mode is used instead.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for pooler compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
