package filters

import (
	"math"
	"strconv"
	"time"

	"github.com/teranos/neocad/models"
)

// Kind identifies what a Value holds.
type Kind int

const (
	// KindAbsent is the zero Value: the attribute was not recorded.
	KindAbsent Kind = iota
	KindNumber
	KindDate
	KindBool
)

// Value is a comparable attribute value.
type Value struct {
	kind Kind
	num  float64
	date time.Time
	flag bool
}

// Number wraps a float.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Date wraps the UTC calendar date of t.
func Date(t time.Time) Value { return Value{kind: KindDate, date: models.TruncateToDate(t)} }

// Bool wraps a flag.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Kind reports what v holds.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the zero Value.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// compare orders v against other. ok is false when the two are not
// comparable: either is absent, kinds differ, or a number is NaN.
func (v Value) compare(other Value) (c int, ok bool) {
	if v.kind == KindAbsent || v.kind != other.kind {
		return 0, false
	}
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsNaN(other.num) {
			return 0, false
		}
		switch {
		case v.num < other.num:
			return -1, true
		case v.num > other.num:
			return 1, true
		}
		return 0, true
	case KindDate:
		return v.date.Compare(other.date), true
	case KindBool:
		switch {
		case v.flag == other.flag:
			return 0, true
		case !v.flag:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.date.Format("2006-01-02")
	case KindBool:
		return strconv.FormatBool(v.flag)
	}
	return "absent"
}
