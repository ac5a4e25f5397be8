package filters

import (
	"iter"
	"time"
)

// Criteria holds the optional query options a user can set.
// A nil field means the option was not given. Hazardous distinguishes
// "must not be hazardous" (pointer to false) from "don't care" (nil).
type Criteria struct {
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time

	DistanceMin *float64
	DistanceMax *float64
	VelocityMin *float64
	VelocityMax *float64
	DiameterMin *float64
	DiameterMax *float64

	Hazardous *bool
}

// CreateFilters returns one filter per criterion that is set, in a fixed
// order: dates, distance, velocity, diameter, hazardous.
func CreateFilters(c Criteria) []Filter {
	var out []Filter

	if c.Date != nil {
		out = append(out, DateOn(*c.Date))
	}
	if c.StartDate != nil {
		out = append(out, DateAfter(*c.StartDate))
	}
	if c.EndDate != nil {
		out = append(out, DateBefore(*c.EndDate))
	}
	if c.DistanceMin != nil {
		out = append(out, DistanceMin(*c.DistanceMin))
	}
	if c.DistanceMax != nil {
		out = append(out, DistanceMax(*c.DistanceMax))
	}
	if c.VelocityMin != nil {
		out = append(out, VelocityMin(*c.VelocityMin))
	}
	if c.VelocityMax != nil {
		out = append(out, VelocityMax(*c.VelocityMax))
	}
	if c.DiameterMin != nil {
		out = append(out, DiameterMin(*c.DiameterMin))
	}
	if c.DiameterMax != nil {
		out = append(out, DiameterMax(*c.DiameterMax))
	}
	if c.Hazardous != nil {
		out = append(out, HazardousIs(*c.Hazardous))
	}

	return out
}

// Limit yields at most n pairs from seq. n <= 0 means no limit.
func Limit[K, V any](seq iter.Seq2[K, V], n int) iter.Seq2[K, V] {
	if n <= 0 {
		return seq
	}
	return func(yield func(K, V) bool) {
		produced := 0
		for k, v := range seq {
			if !yield(k, v) {
				return
			}
			produced++
			if produced == n {
				return
			}
		}
	}
}

// LimitSeq is Limit for single-value sequences.
func LimitSeq[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	if n <= 0 {
		return seq
	}
	return func(yield func(T) bool) {
		produced := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			produced++
			if produced == n {
				return
			}
		}
	}
}
