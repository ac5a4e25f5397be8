// Package filters provides predicates for querying close approaches.
//
// A Filter pairs an Accessor (which attribute to read), an Operator and a
// reference value. Filters are built with the per-attribute constructors
// (DateOn, DistanceMin, HazardousIs, ...), from optional user criteria with
// CreateFilters, or from "attribute op value" expressions with ParseFilter.
// The database applies them conjunctively; Limit caps the result stream.
package filters

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/models"
)

// Filter is a single criterion over a close approach.
type Filter struct {
	Accessor Accessor
	Op       Operator
	Value    Value
}

// Match evaluates Op(Accessor(approach), Value).
func (f Filter) Match(approach *models.CloseApproach) (bool, error) {
	if f.Accessor == nil {
		return false, errors.Wrapf(errors.ErrUnsupportedCriterion, "filter %s has no accessor", f)
	}
	got, err := f.Accessor.Get(approach)
	if err != nil {
		return false, err
	}
	return f.Op.Apply(got, f.Value), nil
}

func (f Filter) String() string {
	name := "Attribute"
	if f.Accessor != nil && f.Accessor.Name() != "" {
		name = strings.ToUpper(f.Accessor.Name()[:1]) + f.Accessor.Name()[1:]
	}
	return fmt.Sprintf("%sFilter(op=%s, value=%s)", name, f.Op, f.Value)
}

// DateOn matches approaches on the calendar date of d.
func DateOn(d time.Time) Filter { return Filter{DateAccessor{}, OpEqual, Date(d)} }

// DateBefore matches approaches on or before the date of d.
func DateBefore(d time.Time) Filter { return Filter{DateAccessor{}, OpLessEqual, Date(d)} }

// DateAfter matches approaches on or after the date of d.
func DateAfter(d time.Time) Filter { return Filter{DateAccessor{}, OpGreaterEqual, Date(d)} }

// DistanceMin matches approaches at least au away.
func DistanceMin(au float64) Filter { return Filter{DistanceAccessor{}, OpGreaterEqual, Number(au)} }

// DistanceMax matches approaches at most au away.
func DistanceMax(au float64) Filter { return Filter{DistanceAccessor{}, OpLessEqual, Number(au)} }

// VelocityMin matches approaches at least kms fast.
func VelocityMin(kms float64) Filter { return Filter{VelocityAccessor{}, OpGreaterEqual, Number(kms)} }

// VelocityMax matches approaches at most kms fast.
func VelocityMax(kms float64) Filter { return Filter{VelocityAccessor{}, OpLessEqual, Number(kms)} }

// DiameterMin matches approaches by NEOs at least km across.
func DiameterMin(km float64) Filter { return Filter{DiameterAccessor{}, OpGreaterEqual, Number(km)} }

// DiameterMax matches approaches by NEOs at most km across.
func DiameterMax(km float64) Filter { return Filter{DiameterAccessor{}, OpLessEqual, Number(km)} }

// HazardousIs matches approaches by NEOs whose hazardous flag equals hazardous.
func HazardousIs(hazardous bool) Filter { return Filter{HazardousAccessor{}, OpEqual, Bool(hazardous)} }

// ParseFilter builds a filter from an "attribute op value" expression such as
// "velocity ge 25" or "date le 2020-12-31". Unknown attributes fail with
// ErrUnsupportedCriterion; malformed expressions with ErrInvalidRequest.
func ParseFilter(expr string) (Filter, error) {
	parts := strings.Fields(expr)
	if len(parts) != 3 {
		return Filter{}, errors.NewInvalidRequestError("filter %q must have the form \"attribute op value\"", expr)
	}

	accessor, err := AccessorFor(strings.ToLower(parts[0]))
	if err != nil {
		return Filter{}, err
	}

	op := Operator(strings.ToLower(parts[1]))
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
	default:
		return Filter{}, errors.NewInvalidRequestError("unknown operator %q in filter %q", parts[1], expr)
	}

	var value Value
	switch accessor.(type) {
	case DateAccessor:
		d, err := models.ParseDate(parts[2])
		if err != nil {
			return Filter{}, badValue(err, "date", expr)
		}
		value = Date(d)
	case HazardousAccessor:
		b, err := strconv.ParseBool(parts[2])
		if err != nil {
			return Filter{}, badValue(err, "flag", expr)
		}
		value = Bool(b)
	default:
		f, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return Filter{}, badValue(err, "number", expr)
		}
		value = Number(f)
	}

	return Filter{Accessor: accessor, Op: op, Value: value}, nil
}

// badValue keeps the parse error as the cause and marks it as an invalid
// request.
func badValue(err error, kind, expr string) error {
	return errors.Mark(errors.Wrapf(err, "bad %s in filter %q", kind, expr), errors.ErrInvalidRequest)
}
