// Package extract reads NEO and close approach data files into unlinked
// models.
//
// NEOs come from the JPL small-body database CSV export (header row, one NEO
// per row). Close approaches come from the JPL CAD API JSON response, whose
// "data" member is an array of positional string rows described by "fields".
package extract

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"

	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/logger"
	"github.com/teranos/neocad/models"
)

// LoadNEOs reads NEOs from the CSV file at path.
func LoadNEOs(path string) ([]*models.NearEarthObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open NEO file %s", path)
	}
	defer f.Close()

	neos, err := ReadNEOs(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read NEO file %s", path)
	}

	logger.Debugw("Loaded NEOs", logger.FieldFile, path, logger.FieldCount, len(neos))
	return neos, nil
}

// ReadNEOs reads NEOs from CSV. The first row names the columns.
func ReadNEOs(r io.Reader) ([]*models.NearEarthObject, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	columns := append([]string(nil), header...)

	var neos []*models.NearEarthObject
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read row %d", len(neos)+2)
		}

		info := make(map[string]string, len(columns))
		for i, column := range columns {
			if i < len(record) {
				info[column] = record[i]
			}
		}
		neos = append(neos, models.NewNearEarthObject(info))
	}

	return neos, nil
}

// cadDocument is the subset of a CAD API response that is read.
type cadDocument struct {
	Fields []string   `json:"fields"`
	Data   [][]*string `json:"data"`
}

// LoadApproaches reads close approaches from the CAD JSON file at path.
func LoadApproaches(path string) ([]*models.CloseApproach, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open close approach file %s", path)
	}
	defer f.Close()

	approaches, err := ReadApproaches(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read close approach file %s", path)
	}

	logger.Debugw("Loaded close approaches", logger.FieldFile, path, logger.FieldCount, len(approaches))
	return approaches, nil
}

// ReadApproaches decodes a CAD JSON document. JSON nulls read as empty
// fields; rows too short to hold a velocity are rejected.
func ReadApproaches(r io.Reader) ([]*models.CloseApproach, error) {
	var doc cadDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode CAD document")
	}

	approaches := make([]*models.CloseApproach, 0, len(doc.Data))
	for i, row := range doc.Data {
		if len(row) < models.MinApproachFields {
			return nil, errors.NewInvalidRequestError("row %d has %d fields, need at least %d",
				i, len(row), models.MinApproachFields)
		}
		fields := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				fields[j] = *v
			}
		}
		approaches = append(approaches, models.NewCloseApproach(fields))
	}

	return approaches, nil
}
