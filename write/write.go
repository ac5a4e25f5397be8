// Package write exports query results to files.
//
// Every writer consumes an iter.Seq2 of approaches and errors as produced by
// database.NEODatabase.Query, usually capped by filters.Limit. The first error
// in the sequence aborts the export and is returned to the caller.
package write

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"iter"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/teranos/neocad/db"
	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/logger"
	"github.com/teranos/neocad/models"
)

// Results is the stream every writer consumes.
type Results = iter.Seq2[*models.CloseApproach, error]

// Format names an export encoding.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// FormatFor picks the export format from a filename extension.
func FormatFor(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", errors.WithHint(
		errors.NewInvalidRequestError("cannot export to %q", filename),
		"use a .csv, .json, .yaml, .yml, .db or .sqlite extension")
}

// ToFile writes results to filename in the format its extension selects.
// It returns the number of approaches written.
func ToFile(ctx context.Context, filename string, results Results) (int, error) {
	format, err := FormatFor(filename)
	if err != nil {
		return 0, err
	}

	log := logger.LoggerFromContext(ctx)
	log.Debugw("Exporting results", logger.FieldFile, filename, logger.FieldFormat, string(format))

	if format == FormatSQLite {
		return WriteSQLite(ctx, filename, results)
	}

	f, err := os.Create(filename)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create %s", filename)
	}

	var n int
	switch format {
	case FormatCSV:
		n, err = WriteCSV(f, results)
	case FormatJSON:
		n, err = WriteJSON(f, results)
	case FormatYAML:
		n, err = WriteYAML(f, results)
	}
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = errors.Wrapf(closeErr, "failed to close %s", filename)
	}
	if err != nil {
		return n, err
	}

	log.Infow("Export complete", logger.FieldFile, filename, logger.FieldCount, n)
	return n, nil
}

// WriteCSV writes a header of models.Fieldnames followed by one row per approach.
func WriteCSV(w io.Writer, results Results) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.Fieldnames); err != nil {
		return 0, errors.Wrap(err, "failed to write headers")
	}

	n := 0
	for approach, err := range results {
		if err != nil {
			return n, err
		}
		if err := writer.Write(approach.Serialize().Row()); err != nil {
			return n, errors.Wrapf(err, "failed to write row %d", n)
		}
		n++
	}

	writer.Flush()
	return n, errors.Wrap(writer.Error(), "failed to flush csv")
}

// neoDocument is the typed NEO shape of JSON and YAML exports.
type neoDocument struct {
	Designation          string   `json:"designation" yaml:"designation"`
	Name                 string   `json:"name" yaml:"name"`
	DiameterKM           *float64 `json:"diameter_km" yaml:"diameter_km"`
	PotentiallyHazardous bool     `json:"potentially_hazardous" yaml:"potentially_hazardous"`
}

type approachDocument struct {
	DatetimeUTC string      `json:"datetime_utc" yaml:"datetime_utc"`
	DistanceAU  *float64    `json:"distance_au" yaml:"distance_au"`
	VelocityKMS *float64    `json:"velocity_km_s" yaml:"velocity_km_s"`
	NEO         neoDocument `json:"neo" yaml:"neo"`
}

// document converts the string record into typed fields. An unknown diameter
// has no JSON encoding and becomes null.
func document(rec models.ApproachRecord) approachDocument {
	doc := approachDocument{
		DatetimeUTC: rec.DatetimeUTC,
		DistanceAU:  rec.DistanceAU,
		VelocityKMS: rec.VelocityKMS,
		NEO: neoDocument{
			Designation: rec.NEO.Designation,
			Name:        rec.NEO.Name,
		},
	}
	if d, err := strconv.ParseFloat(rec.NEO.DiameterKM, 64); err == nil && !math.IsNaN(d) {
		doc.NEO.DiameterKM = &d
	}
	hazardous, _ := strconv.ParseBool(strings.TrimSpace(rec.NEO.PotentiallyHazardous))
	doc.NEO.PotentiallyHazardous = hazardous
	return doc
}

func collect(results Results) ([]approachDocument, error) {
	docs := []approachDocument{}
	for approach, err := range results {
		if err != nil {
			return docs, err
		}
		docs = append(docs, document(approach.Serialize()))
	}
	return docs, nil
}

// WriteJSON writes a JSON array of approaches, each with its NEO nested.
func WriteJSON(w io.Writer, results Results) (int, error) {
	docs, err := collect(results)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return 0, errors.Wrap(err, "failed to encode json")
	}
	return len(docs), nil
}

// WriteYAML writes the same document shape as WriteJSON as a YAML sequence.
func WriteYAML(w io.Writer, results Results) (int, error) {
	docs, err := collect(results)
	if err != nil {
		return 0, err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return 0, errors.Wrap(err, "failed to encode yaml")
	}
	if err := enc.Close(); err != nil {
		return 0, errors.Wrap(err, "failed to close yaml encoder")
	}
	return len(docs), nil
}

// WriteSQLite appends results to the SQLite file at path as one export.
// The file is created and migrated when needed. Rows are written in a single
// transaction, so a failed export leaves no partial rows behind.
func WriteSQLite(ctx context.Context, path string, results Results) (int, error) {
	log := logger.LoggerFromContext(ctx)

	conn, err := db.OpenWithMigrations(path, log)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin export transaction")
	}

	exportID := uuid.New().String()
	export, err := db.BeginExport(ctx, tx, exportID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	for approach, err := range results {
		if err == nil {
			err = export.Insert(ctx, approach.Serialize())
		}
		if err != nil {
			export.Close()
			tx.Rollback()
			return 0, err
		}
	}
	n := export.Count()
	export.Close()

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit export")
	}

	log.Infow("SQLite export committed", logger.FieldExportID, exportID, logger.FieldCount, n)
	return n, nil
}
