package db

import (
	"context"
	"database/sql"

	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/models"
)

const (
	insertExportSQL   = `INSERT INTO exports (id) VALUES (?)`
	insertApproachSQL = `INSERT INTO close_approaches (
		export_id, position, datetime_utc, distance_au, velocity_km_s,
		designation, name, diameter_km, potentially_hazardous
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// ExportWriter inserts approach records for one export inside a transaction.
type ExportWriter struct {
	exportID string
	stmt     *sql.Stmt
	position int
}

// BeginExport registers exportID and prepares the row insert on tx.
func BeginExport(ctx context.Context, tx *sql.Tx, exportID string) (*ExportWriter, error) {
	if _, err := tx.ExecContext(ctx, insertExportSQL, exportID); err != nil {
		return nil, errors.Wrapf(err, "failed to register export %s", exportID)
	}
	stmt, err := tx.PrepareContext(ctx, insertApproachSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare close approach insert")
	}
	return &ExportWriter{exportID: exportID, stmt: stmt}, nil
}

// Insert appends one record. Rows keep their insertion order in position.
func (w *ExportWriter) Insert(ctx context.Context, rec models.ApproachRecord) error {
	_, err := w.stmt.ExecContext(ctx,
		w.exportID,
		w.position,
		rec.DatetimeUTC,
		nullFloat(rec.DistanceAU),
		nullFloat(rec.VelocityKMS),
		rec.NEO.Designation,
		rec.NEO.Name,
		rec.NEO.DiameterKM,
		rec.NEO.PotentiallyHazardous,
	)
	if err != nil {
		if IsDatabaseClosed(err) {
			return errors.Wrapf(ErrDatabaseClosed, "insert row %d", w.position)
		}
		return errors.Wrapf(err, "failed to insert row %d", w.position)
	}
	w.position++
	return nil
}

// Count is the number of rows inserted so far.
func (w *ExportWriter) Count() int {
	return w.position
}

// Close releases the prepared statement.
func (w *ExportWriter) Close() error {
	return w.stmt.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
