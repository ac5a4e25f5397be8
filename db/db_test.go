package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/models"
)

func f64(v float64) *float64 { return &v }

func sampleRecord() models.ApproachRecord {
	return models.ApproachRecord{
		DatetimeUTC: "2020-01-01 12:00",
		DistanceAU:  f64(0.05),
		VelocityKMS: nil,
		NEO: models.NEORecord{
			Designation:          "433",
			Name:                 "Eros",
			DiameterKM:           "16.84",
			PotentiallyHazardous: "false",
		},
	}
}

func TestOpen(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, SQLiteBusyTimeoutMS, busyTimeout)
}

func TestOpen_InvalidPath(t *testing.T) {
	db, err := Open("/invalid/nonexistent/path/db.sqlite", nil)
	if err == nil && db != nil {
		err = db.Ping()
		db.Close()
	}
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "export.db")

	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db, nil))
	defer db.Close()

	var versions int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 2, versions)

	var tables int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('exports', 'close_approaches')").Scan(&tables))
	assert.Equal(t, 2, tables)
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "export.db")
	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("INSERT INTO schema_migrations (version) VALUES ('099')")
	require.NoError(t, err)

	err = Migrate(db, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "099")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestMigrate_ReportsExistingExports(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "export.db")
	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("INSERT INTO exports (id) VALUES ('earlier')")
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	require.NoError(t, Migrate(db, zap.New(core).Sugar()))

	entries := logs.FilterMessage("Export schema ready").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 0, fields["applied"])
	assert.EqualValues(t, 1, fields["existing_exports"])
	assert.Equal(t, "001", fields["schema_version"])
}

func TestExportWriter_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "export.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	w, err := BeginExport(ctx, tx, "export-1")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, w.Insert(ctx, sampleRecord()))
	}
	assert.Equal(t, 3, w.Count())
	require.NoError(t, w.Close())
	require.NoError(t, tx.Commit())

	var (
		count    int
		distance sql.NullFloat64
		velocity sql.NullFloat64
		name     string
	)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM close_approaches WHERE export_id = ?", "export-1").Scan(&count))
	assert.Equal(t, 3, count)

	require.NoError(t, db.QueryRow(
		"SELECT distance_au, velocity_km_s, name FROM close_approaches WHERE position = 2").Scan(&distance, &velocity, &name))
	assert.True(t, distance.Valid)
	assert.Equal(t, 0.05, distance.Float64)
	assert.False(t, velocity.Valid)
	assert.Equal(t, "Eros", name)
}

func TestExportWriter_Mock(t *testing.T) {
	ctx := context.Background()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	rec := sampleRecord()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO exports").WithArgs("export-2").WillReturnResult(sqlmock.NewResult(1, 1))
	prep := mock.ExpectPrepare("INSERT INTO close_approaches")
	prep.ExpectExec().
		WithArgs("export-2", 0, rec.DatetimeUTC, sqlmock.AnyArg(), sqlmock.AnyArg(),
			"433", "Eros", "16.84", "false").
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("export-2", 1, rec.DatetimeUTC, sqlmock.AnyArg(), sqlmock.AnyArg(),
			"433", "Eros", "16.84", "false").
		WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	tx, err := mockDB.BeginTx(ctx, nil)
	require.NoError(t, err)
	w, err := BeginExport(ctx, tx, "export-2")
	require.NoError(t, err)

	require.NoError(t, w.Insert(ctx, rec))
	err = w.Insert(ctx, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
	assert.Equal(t, 1, w.Count())

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginExport_DuplicateID(t *testing.T) {
	ctx := context.Background()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO exports").WithArgs("dup").WillReturnError(fmt.Errorf("UNIQUE constraint failed"))

	tx, err := mockDB.BeginTx(ctx, nil)
	require.NoError(t, err)

	_, err = BeginExport(ctx, tx, "dup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dup")
}

func TestIsDatabaseClosed(t *testing.T) {
	assert.False(t, IsDatabaseClosed(nil))
	assert.True(t, IsDatabaseClosed(ErrDatabaseClosed))
	assert.True(t, IsDatabaseClosed(fmt.Errorf("sql: database is closed")))
	assert.False(t, IsDatabaseClosed(fmt.Errorf("disk full")))
}

func TestExportWriter_ClosedDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "export.db"), nil)
	require.NoError(t, err)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	w, err := BeginExport(ctx, tx, "export-3")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	require.NoError(t, db.Close())

	err = w.Insert(ctx, sampleRecord())
	require.Error(t, err)
}
