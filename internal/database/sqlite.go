package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	// registers the "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

//go:embed sqlite_migrations/*.sql
var sqliteMigrations embed.FS

// OpenSQLite opens the database file at path, creating it when missing.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// MigrateSQLite applies the embedded sqlite migrations that are newer than
// PRAGMA user_version. Files are named NNN_description.sql and each one bumps
// user_version to NNN inside its own transaction.
func MigrateSQLite(ctx context.Context, logger *zerolog.Logger, db *sql.DB) error {
	files, err := fs.Glob(sqliteMigrations, "sqlite_migrations/*.sql")
	if err != nil {
		return fmt.Errorf("listing sqlite migrations: %w", err)
	}
	sort.Strings(files)

	var current int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&current); err != nil {
		return fmt.Errorf("reading sqlite schema version: %w", err)
	}
	from := current

	for _, file := range files {
		version, err := migrationVersion(file)
		if err != nil {
			return err
		}
		if version <= current {
			continue
		}

		body, err := sqliteMigrations.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		if err := applySQLiteMigration(ctx, db, version, string(body)); err != nil {
			return fmt.Errorf("applying %s: %w", file, err)
		}
		current = version
	}

	if from == current {
		logger.Info().Msgf("database schema up to date, version %d", current)
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, current)
	}

	return nil
}

func applySQLiteMigration(ctx context.Context, db *sql.DB, version int, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}

	// PRAGMA does not take bind parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d;`, version)); err != nil {
		return err
	}

	return tx.Commit()
}

func migrationVersion(file string) (int, error) {
	base := file[strings.LastIndex(file, "/")+1:]
	prefix, _, ok := strings.Cut(base, "_")
	if !ok {
		return 0, fmt.Errorf("migration %s: missing version prefix", file)
	}

	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("migration %s: %w", file, err)
	}

	return version, nil
}
