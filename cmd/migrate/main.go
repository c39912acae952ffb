// Package main is a migration CLI for the lifestats database schema.
//
// Usage:
//
//	migrate [-path dir] up|down|steps <n>|version|force <v>
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const defaultMigrationsPath = "migrations"

func main() {
	var migrationsPath string
	var databaseURL string
	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "path to migrations directory")
	flag.StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "database connection URL")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	// Only the database URL is needed here, not the full server config
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required (flag -database-url or environment)")
		os.Exit(1)
	}

	m, err := migrate.New(
		"file://"+migrationsPath,
		pgxURL(databaseURL),
	)
	if err != nil {
		logger.Error("failed to initialize migrator", "error", err)
		os.Exit(1)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if sourceErr != nil {
			logger.Error("source close error", "error", sourceErr)
		}
		if dbErr != nil {
			logger.Error("database close error", "error", dbErr)
		}
	}()

	if err := run(m, logger, command, args[1:]); err != nil {
		logger.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func run(m *migrate.Migrate, logger *slog.Logger, command string, args []string) error {
	switch command {
	case "up":
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("no pending migrations")
				return nil
			}
			return err
		}
		logVersion(m, logger, "migrated up")

	case "down":
		if err := m.Down(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("no migrations to roll back")
				return nil
			}
			return err
		}
		logger.Info("rolled back all migrations")

	case "steps":
		if len(args) != 1 {
			return errors.New("usage: migrate steps <n> (negative rolls back)")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		if err := m.Steps(n); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("no change")
				return nil
			}
			return err
		}
		logVersion(m, logger, "stepped")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				logger.Info("no migrations applied yet")
				return nil
			}
			return err
		}
		logger.Info("current version", "version", version, "dirty", dirty)

	case "force":
		if len(args) != 1 {
			return errors.New("usage: migrate force <version>")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		if err := m.Force(v); err != nil {
			return err
		}
		logger.Info("forced version", "version", v)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}

func logVersion(m *migrate.Migrate, logger *slog.Logger, msg string) {
	version, dirty, err := m.Version()
	if err != nil {
		logger.Info(msg)
		return
	}
	logger.Info(msg, "version", version, "dirty", dirty)
}

// pgxURL rewrites a postgres:// URL onto the pgx5 migrate driver scheme.
func pgxURL(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgres://") {
		return "pgx5://" + strings.TrimPrefix(databaseURL, "postgres://")
	}
	if strings.HasPrefix(databaseURL, "postgresql://") {
		return "pgx5://" + strings.TrimPrefix(databaseURL, "postgresql://")
	}
	return databaseURL
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [-path dir] [-database-url url] <command>

Commands:
  up            apply all pending migrations
  down          roll back all migrations
  steps <n>     apply n migrations (negative rolls back)
  version       print current schema version
  force <v>     force schema version without running migrations`)
}
