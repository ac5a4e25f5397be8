package db

import (
	"database/sql"
	"embed"
	"path"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/neocad/errors"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// migration is one embedded schema step, identified by its file name prefix.
type migration struct {
	version  string
	filename string
}

func embeddedMigrations() ([]migration, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}

	var out []migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, _, _ := strings.Cut(entry.Name(), "_")
		out = append(out, migration{version: version, filename: entry.Name()})
	}
	slices.SortFunc(out, func(a, b migration) int { return strings.Compare(a.version, b.version) })
	return out, nil
}

// Migrate brings an export database up to the schema this binary writes.
// A database carrying a schema version this binary does not know was written
// by a newer neocad and is rejected rather than appended to.
// If logger is provided, logs migration progress; otherwise operates silently.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	steps, err := embeddedMigrations()
	if err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	for version := range applied {
		if !slices.ContainsFunc(steps, func(m migration) bool { return m.version == version }) {
			return errors.WithHint(
				errors.Newf("export database has schema version %s, which this neocad does not know", version),
				"write to a new export file or upgrade neocad")
		}
	}

	ran := 0
	for _, step := range steps {
		if applied[step.version] {
			continue
		}
		// 000 creates schema_migrations itself
		if len(applied) == 0 && ran == 0 && step.version != "000" {
			return errors.Newf("schema_migrations table missing, but migration is not 000: %s", step.filename)
		}

		if logger != nil {
			logger.Debugw("Applying migration", "migration", step.filename, "version", step.version)
		}
		if err := runMigration(db, step); err != nil {
			return err
		}
		ran++
	}

	if logger != nil {
		var exports int
		if err := db.QueryRow("SELECT COUNT(*) FROM exports").Scan(&exports); err != nil {
			return errors.Wrap(err, "count existing exports")
		}
		logger.Infow("Export schema ready",
			"schema_version", steps[len(steps)-1].version,
			"applied", ran,
			"existing_exports", exports,
		)
	}

	return nil
}

// appliedVersions returns the recorded schema versions, or none when the
// database is brand new.
func appliedVersions(db *sql.DB) (map[string]bool, error) {
	applied := map[string]bool{}

	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations')").Scan(&exists)
	if err != nil {
		return nil, errors.Wrap(err, "inspect schema")
	}
	if !exists {
		return applied, nil
	}

	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, errors.Wrap(err, "read schema_migrations")
	}
	defer rows.Close()
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, errors.Wrap(err, "scan schema version")
		}
		applied[version] = true
	}
	return applied, errors.Wrap(rows.Err(), "read schema_migrations")
}

func runMigration(db *sql.DB, step migration) error {
	sqlBytes, err := migrations.ReadFile(path.Join(migrationsDir, step.filename))
	if err != nil {
		return errors.Wrapf(err, "read %s", step.filename)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", step.filename)
	}
	if _, err := tx.Exec(string(sqlBytes)); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "execute %s", step.filename)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", step.version); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "record %s", step.filename)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", step.filename)
}
