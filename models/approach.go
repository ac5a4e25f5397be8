package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Positions of the fields CloseApproach reads from a CAD data row.
const (
	FieldDesignation = 0
	FieldTime        = 3
	FieldDistance    = 4
	FieldVelocity    = 7
)

// MinApproachFields is the shortest CAD row that carries every field read.
const MinApproachFields = FieldVelocity + 1

// CloseApproach is one pass of a NEO near Earth.
//
// Time, Distance and Velocity are nil when the source row left them out.
// Distance is in astronomical units and Velocity in km/s, both rounded to
// two decimal places.
type CloseApproach struct {
	Time     *time.Time
	Distance *float64
	Velocity *float64

	designation string
	neo         *NearEarthObject
}

// NewCloseApproach builds an approach from a positional CAD row.
//
// A distance or velocity that parses to exactly zero is stored as absent,
// not as 0.0, matching how the reference data set has always been read.
func NewCloseApproach(fields []string) *CloseApproach {
	field := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	ca := &CloseApproach{designation: field(FieldDesignation)}
	if raw := field(FieldTime); raw != "" {
		if t, err := ParseCADTime(raw); err == nil {
			ca.Time = &t
		}
	}
	ca.Distance = parseRounded(field(FieldDistance))
	ca.Velocity = parseRounded(field(FieldVelocity))
	return ca
}

// parseRounded returns nil for empty, unparseable or zero input.
func parseRounded(raw string) *float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v == 0 {
		return nil
	}
	rounded := math.Round(v*100) / 100
	return &rounded
}

// JoinKey is the primary designation this approach refers to, as read from
// the source row. It is what the database resolves against its NEO index.
func (ca *CloseApproach) JoinKey() string {
	return ca.designation
}

// NEO returns the linked object, or nil before linking.
func (ca *CloseApproach) NEO() *NearEarthObject {
	return ca.neo
}

// TimeString formats the approach time as "2006-01-02 15:04", or "" when absent.
func (ca *CloseApproach) TimeString() string {
	if ca.Time == nil {
		return ""
	}
	return FormatTime(*ca.Time)
}

func (ca *CloseApproach) String() string {
	name := ca.designation
	hazard := "is not"
	if ca.neo != nil {
		name = ca.neo.FullName()
		if ca.neo.Hazardous {
			hazard = "is"
		}
	}
	return fmt.Sprintf("On %s, NEO %s approaches Earth at a distance of %s au and a velocity of %s km/s and %s potentially hazardous",
		orUnknown(ca.TimeString()), name, formatOptional(ca.Distance), formatOptional(ca.Velocity), hazard)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func orUnknown(s string) string {
	if s == "" {
		return "an unknown date"
	}
	return s
}

// ApproachRecord is the export form of a close approach with its NEO nested.
type ApproachRecord struct {
	DatetimeUTC string    `json:"datetime_utc" yaml:"datetime_utc"`
	DistanceAU  *float64  `json:"distance_au" yaml:"distance_au"`
	VelocityKMS *float64  `json:"velocity_km_s" yaml:"velocity_km_s"`
	NEO         NEORecord `json:"neo" yaml:"neo"`
}

// Fieldnames is the column order of flattened approach rows.
var Fieldnames = []string{
	"datetime_utc",
	"distance_au",
	"velocity_km_s",
	"designation",
	"name",
	"diameter_km",
	"potentially_hazardous",
}

// Serialize renders the approach for export. An unlinked approach exports
// its join key as the NEO designation and nothing else.
func (ca *CloseApproach) Serialize() ApproachRecord {
	rec := ApproachRecord{
		DatetimeUTC: ca.TimeString(),
		DistanceAU:  ca.Distance,
		VelocityKMS: ca.Velocity,
	}
	if ca.neo != nil {
		rec.NEO = ca.neo.Serialize()
	} else {
		rec.NEO = NEORecord{Designation: ca.designation}
	}
	return rec
}

// Row flattens the record in Fieldnames order. Absent numbers are empty.
func (r ApproachRecord) Row() []string {
	return []string{
		r.DatetimeUTC,
		optionalString(r.DistanceAU),
		optionalString(r.VelocityKMS),
		r.NEO.Designation,
		r.NEO.Name,
		r.NEO.DiameterKM,
		r.NEO.PotentiallyHazardous,
	}
}

func optionalString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Link wires approach to neo in both directions. It must run once per
// approach; the database package calls it while building its indices.
func Link(neo *NearEarthObject, approach *CloseApproach) {
	approach.neo = neo
	neo.approaches = append(neo.approaches, approach)
}
