package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"medischedule/config"
	"medischedule/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// PostgresPool is the global PostgreSQL pool used for appointments.
var PostgresPool *pgxpool.Pool

// InitPostgres opens the pool and applies the embedded migrations.
func InitPostgres() *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := utils.GetLogger()
	pool, err := pgxpool.New(ctx, config.AppConfig.PostgresURL)
	if err != nil {
		logger.Fatal("failed to create PostgreSQL pool", zap.Error(err))
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping PostgreSQL", zap.Error(err))
	}
	if err := Migrate(ctx, pool); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	PostgresPool = pool
	logger.Info("Connected to PostgreSQL")
	return pool
}

// Migrate runs every embedded migration in name order. Each script is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list embedded migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		utils.GetLogger().Debug("migration applied", zap.String("name", name))
	}
	return nil
}

// PingPostgres reports whether the pool still answers.
func PingPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return fmt.Errorf("postgres pool not initialized")
	}
	return PostgresPool.Ping(ctx)
}
