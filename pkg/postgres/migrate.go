package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ApplyMigrations runs every *.sql file in dir in lexical order, recording
// applied files in a schema_migrations table. One transaction per file.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations: %w", err)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		name := filepath.Base(f)

		var exists bool
		if e := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename=$1)`, name).Scan(&exists); e != nil {
			return e
		}
		if exists {
			continue
		}

		sqlBytes, e := os.ReadFile(f)
		if e != nil {
			return e
		}
		sqlText := strings.TrimSpace(string(sqlBytes))
		if sqlText == "" {
			return errors.New("empty migration: " + name)
		}

		tx, e := pool.Begin(ctx)
		if e != nil {
			return e
		}
		if _, e = tx.Exec(ctx, sqlText); e != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("migration %s failed: %w", name, e)
		}
		if _, e = tx.Exec(ctx, `INSERT INTO schema_migrations(filename) VALUES($1)`, name); e != nil {
			_ = tx.Rollback(ctx)
			return e
		}
		if e := tx.Commit(ctx); e != nil {
			return e
		}

		logger.Info("Applied migration", zap.String("file", name))
	}
	return nil
}
