package filters

import (
	"sort"

	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/models"
)

// Accessor extracts one comparable attribute from a close approach.
// An absent attribute is returned as the zero Value with a nil error.
type Accessor interface {
	Name() string
	Get(approach *models.CloseApproach) (Value, error)
}

// DateAccessor reads the calendar date of the approach.
type DateAccessor struct{}

func (DateAccessor) Name() string { return "date" }

func (DateAccessor) Get(approach *models.CloseApproach) (Value, error) {
	if approach.Time == nil {
		return Value{}, nil
	}
	return Date(*approach.Time), nil
}

// DistanceAccessor reads the nominal approach distance in au.
type DistanceAccessor struct{}

func (DistanceAccessor) Name() string { return "distance" }

func (DistanceAccessor) Get(approach *models.CloseApproach) (Value, error) {
	if approach.Distance == nil {
		return Value{}, nil
	}
	return Number(*approach.Distance), nil
}

// VelocityAccessor reads the relative approach velocity in km/s.
type VelocityAccessor struct{}

func (VelocityAccessor) Name() string { return "velocity" }

func (VelocityAccessor) Get(approach *models.CloseApproach) (Value, error) {
	if approach.Velocity == nil {
		return Value{}, nil
	}
	return Number(*approach.Velocity), nil
}

// DiameterAccessor reads the diameter of the linked NEO. Unknown diameters
// are NaN and so never satisfy a comparison.
type DiameterAccessor struct{}

func (DiameterAccessor) Name() string { return "diameter" }

func (DiameterAccessor) Get(approach *models.CloseApproach) (Value, error) {
	neo, err := linkedNEO(approach)
	if err != nil {
		return Value{}, err
	}
	return Number(neo.Diameter), nil
}

// HazardousAccessor reads the potentially hazardous flag of the linked NEO.
type HazardousAccessor struct{}

func (HazardousAccessor) Name() string { return "hazardous" }

func (HazardousAccessor) Get(approach *models.CloseApproach) (Value, error) {
	neo, err := linkedNEO(approach)
	if err != nil {
		return Value{}, err
	}
	return Bool(neo.Hazardous), nil
}

func linkedNEO(approach *models.CloseApproach) (*models.NearEarthObject, error) {
	if neo := approach.NEO(); neo != nil {
		return neo, nil
	}
	return nil, errors.Wrapf(errors.ErrLinkResolution, "approach to %q has not been linked", approach.JoinKey())
}

var accessors = map[string]Accessor{
	DateAccessor{}.Name():      DateAccessor{},
	DistanceAccessor{}.Name():  DistanceAccessor{},
	VelocityAccessor{}.Name():  VelocityAccessor{},
	DiameterAccessor{}.Name():  DiameterAccessor{},
	HazardousAccessor{}.Name(): HazardousAccessor{},
}

// AccessorFor returns the accessor registered under name.
func AccessorFor(name string) (Accessor, error) {
	if a, ok := accessors[name]; ok {
		return a, nil
	}
	return nil, errors.WithHintf(
		errors.Wrapf(errors.ErrUnsupportedCriterion, "no accessor for attribute %q", name),
		"supported attributes: %v", AttributeNames())
}

// AttributeNames lists the registered attribute names in sorted order.
func AttributeNames() []string {
	names := make([]string, 0, len(accessors))
	for name := range accessors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
