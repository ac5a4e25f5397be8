// Package display renders NEOs and query results for the terminal.
package display

import (
	"io"
	"iter"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/models"
)

// Style selects how query results are printed.
type Style string

const (
	StyleTable Style = "table"
	StylePlain Style = "plain"
	StyleJSON  Style = "json"
)

// Styles lists every supported Style.
var Styles = []Style{StyleTable, StylePlain, StyleJSON}

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	for _, style := range Styles {
		if string(style) == s {
			return style, nil
		}
	}
	return "", errors.NewInvalidRequestError("unknown output format %q", s)
}

// NEODetail is the JSON shape of an inspected NEO.
type NEODetail struct {
	models.NEORecord
	Approaches []models.ApproachRecord `json:"approaches,omitempty"`
}

// Detail builds the inspect document, with approaches only when verbose.
func Detail(neo *models.NearEarthObject, verbose bool) NEODetail {
	detail := NEODetail{NEORecord: neo.Serialize()}
	if verbose {
		for _, approach := range neo.Approaches() {
			detail.Approaches = append(detail.Approaches, approach.Serialize())
		}
	}
	return detail
}

// RenderNEO prints the NEO summary line and, when verbose, one line per
// close approach in the order they were linked.
func RenderNEO(w io.Writer, neo *models.NearEarthObject, verbose bool) {
	pterm.Fprintln(w, neo.String())
	if !verbose {
		return
	}
	for _, approach := range neo.Approaches() {
		pterm.Fprintln(w, pterm.Gray("- ")+approach.String())
	}
}

// RenderApproaches prints results in the requested style and returns how
// many were printed. The first error in results stops rendering.
func RenderApproaches(w io.Writer, style Style, results iter.Seq2[*models.CloseApproach, error]) (int, error) {
	switch style {
	case StylePlain:
		return renderPlain(w, results)
	case StyleJSON:
		return renderJSON(w, results)
	default:
		return renderTable(w, results)
	}
}

func renderPlain(w io.Writer, results iter.Seq2[*models.CloseApproach, error]) (int, error) {
	n := 0
	for approach, err := range results {
		if err != nil {
			return n, err
		}
		pterm.Fprintln(w, approach.String())
		n++
	}
	return n, nil
}

func renderJSON(w io.Writer, results iter.Seq2[*models.CloseApproach, error]) (int, error) {
	records := []models.ApproachRecord{}
	for approach, err := range results {
		if err != nil {
			return len(records), err
		}
		records = append(records, approach.Serialize())
	}
	return len(records), OutputJSON(w, records)
}

var tableHeader = []string{"Date (UTC)", "Designation", "Name", "Distance (au)", "Velocity (km/s)", "Diameter (km)", "Hazardous"}

func renderTable(w io.Writer, results iter.Seq2[*models.CloseApproach, error]) (int, error) {
	data := pterm.TableData{tableHeader}
	for approach, err := range results {
		if err != nil {
			return len(data) - 1, err
		}
		data = append(data, tableRow(approach.Serialize()))
	}

	n := len(data) - 1
	if n == 0 {
		pterm.Fprintln(w, pterm.Gray("No close approaches match."))
		return 0, nil
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return n, errors.Wrap(err, "failed to render table")
	}
	pterm.Fprintln(w, table)
	return n, nil
}

func tableRow(rec models.ApproachRecord) []string {
	hazardous := "no"
	if ok, _ := strconv.ParseBool(rec.NEO.PotentiallyHazardous); ok {
		hazardous = pterm.LightRed("yes")
	}
	return []string{
		orDash(rec.DatetimeUTC),
		rec.NEO.Designation,
		orDash(rec.NEO.Name),
		orDash(formatNumber(rec.DistanceAU)),
		orDash(formatNumber(rec.VelocityKMS)),
		orDash(diameter(rec.NEO.DiameterKM)),
		hazardous,
	}
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func diameter(s string) string {
	if s == "nan" {
		return ""
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
