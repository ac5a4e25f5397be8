// Package models defines near-Earth objects and their close approaches.
//
// A NearEarthObject carries a unique primary designation, an optional IAU
// name, a diameter in kilometers (NaN when unknown) and a potentially
// hazardous flag. A CloseApproach records when an object passed Earth, how
// close it came and how fast it was moving.
//
// Both are constructed unlinked from raw loader records. The database package
// links each approach to its NEO with Link, after which
// CloseApproach.NEO and NearEarthObject.Approaches resolve.
package models

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// NearEarthObject is a single NEO.
//
// Name is the empty string when the object has no IAU name.
type NearEarthObject struct {
	Designation string
	Name        string
	Diameter    float64
	Hazardous   bool

	approaches []*CloseApproach
}

// NewNearEarthObject builds a NEO from a CSV row keyed by column header.
// Recognised keys are pdes, name, diameter and pha; missing or unparseable
// values fall back to absent name, NaN diameter and non-hazardous.
func NewNearEarthObject(info map[string]string) *NearEarthObject {
	diameter := math.NaN()
	if raw := strings.TrimSpace(info["diameter"]); raw != "" {
		if d, err := strconv.ParseFloat(raw, 64); err == nil {
			diameter = d
		}
	}

	return &NearEarthObject{
		Designation: info["pdes"],
		Name:        info["name"],
		Diameter:    diameter,
		Hazardous:   strings.ToUpper(strings.TrimSpace(info["pha"])) == "Y",
	}
}

// HasName reports whether the NEO has an IAU name.
func (n *NearEarthObject) HasName() bool {
	return n.Name != ""
}

// HasDiameter reports whether the NEO's diameter is known.
func (n *NearEarthObject) HasDiameter() bool {
	return !math.IsNaN(n.Diameter)
}

// Approaches returns the NEO's linked close approaches in load order.
func (n *NearEarthObject) Approaches() []*CloseApproach {
	return slices.Clone(n.approaches)
}

// FullName is "designation (name)", or the bare designation for unnamed NEOs.
func (n *NearEarthObject) FullName() string {
	if n.HasName() {
		return fmt.Sprintf("%s (%s)", n.Designation, n.Name)
	}
	return n.Designation
}

func (n *NearEarthObject) String() string {
	diameter := "an unknown diameter"
	if n.HasDiameter() {
		diameter = fmt.Sprintf("a diameter of %.3f km", n.Diameter)
	}
	verb := "is not"
	if n.Hazardous {
		verb = "is"
	}
	return fmt.Sprintf("NEO %s has %s and %s potentially hazardous", n.FullName(), diameter, verb)
}

// NEORecord is the flat export form of a NEO. Every field is a string so the
// record can be written to CSV without further formatting.
type NEORecord struct {
	Designation          string `json:"designation" yaml:"designation"`
	Name                 string `json:"name" yaml:"name"`
	DiameterKM           string `json:"diameter_km" yaml:"diameter_km"`
	PotentiallyHazardous string `json:"potentially_hazardous" yaml:"potentially_hazardous"`
}

// Serialize renders the NEO for export. An unknown diameter becomes "nan".
func (n *NearEarthObject) Serialize() NEORecord {
	diameter := "nan"
	if n.HasDiameter() {
		diameter = strconv.FormatFloat(n.Diameter, 'f', -1, 64)
	}
	return NEORecord{
		Designation:          n.Designation,
		Name:                 n.Name,
		DiameterKM:           diameter,
		PotentiallyHazardous: strconv.FormatBool(n.Hazardous),
	}
}
