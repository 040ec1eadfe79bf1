package persistence

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // PostgreSQL driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // File source driver
	"github.com/payments-engine/internal/config"
)

const snapshotsTable = "account_snapshots"

// MigrateSnapshots brings the account_snapshots schema up to date from
// cfg.MigrationsPath, or config.DefaultPostgresMigrationsPath when unset.
// A schema left dirty by an earlier failed run is reported, not forced.
func MigrateSnapshots(logger *slog.Logger, cfg *config.PostgresConfig) error {
	if cfg.URL == "" {
		return errors.New("postgres URL cannot be empty")
	}
	path := cfg.MigrationsPath
	if path == "" {
		path = config.DefaultPostgresMigrationsPath
	}
	if err := checkSnapshotMigrations(path); err != nil {
		return err
	}

	m, err := migrate.New("file://"+path, cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if sourceErr != nil || dbErr != nil {
			logger.Warn("Failed to close migrator", "source_error", sourceErr, "database_error", dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate %s schema: %w", snapshotsTable, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read %s schema version: %w", snapshotsTable, err)
	}
	if dirty {
		return fmt.Errorf("%s schema is dirty at version %d", snapshotsTable, version)
	}

	logger.Info("Snapshot schema is up to date", "table", snapshotsTable, "version", version, "path", path)
	return nil
}

// checkSnapshotMigrations fails fast when path is not a directory of up
// migrations or none of them creates account_snapshots.
func checkSnapshotMigrations(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory %s: %w", path, err)
	}

	ups, createsSnapshots := 0, false
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		ups++
		if strings.Contains(name, snapshotsTable) {
			createsSnapshots = true
		}
	}

	switch {
	case ups == 0:
		return fmt.Errorf("migrations directory %s has no .up.sql files", path)
	case !createsSnapshots:
		return fmt.Errorf("migrations directory %s has no %s migration", path, snapshotsTable)
	}
	return nil
}
