// Package database links near-Earth objects to their close approaches and
// answers lookups and filtered queries over the linked set.
//
// A NEODatabase is built once from unlinked loader output and is read-only
// afterwards. It owns both collections; the NEO and approach cross-references
// set during construction are plain pointers into them.
package database

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/logger"
	"github.com/teranos/neocad/models"
)

// Predicate decides whether a close approach belongs in a query result.
// filters.Filter implements it.
type Predicate interface {
	Match(approach *models.CloseApproach) (bool, error)
}

// PredicateFunc adapts a plain function to Predicate.
type PredicateFunc func(approach *models.CloseApproach) (bool, error)

// Match calls f.
func (f PredicateFunc) Match(approach *models.CloseApproach) (bool, error) {
	return f(approach)
}

// Predicates converts a typed slice, such as []filters.Filter, for Query.
func Predicates[P Predicate](ps []P) []Predicate {
	out := make([]Predicate, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

// NEODatabase holds linked NEOs and close approaches.
type NEODatabase struct {
	neos       []*models.NearEarthObject
	approaches []*models.CloseApproach

	byDesignation map[string]*models.NearEarthObject
	byName        map[string]*models.NearEarthObject

	logger *zap.SugaredLogger
}

// Options configures database construction.
type Options struct {
	Logger *zap.SugaredLogger // Optional logger (default: logger.ComponentLogger("database"))
}

// New links neos and approaches into a database.
//
// Every approach must arrive unlinked and every NEO with no approaches.
// An approach whose designation matches no NEO fails construction with
// errors.ErrLinkResolution.
func New(neos []*models.NearEarthObject, approaches []*models.CloseApproach) (*NEODatabase, error) {
	return NewWithOptions(neos, approaches, Options{})
}

// NewWithOptions is New with explicit options.
func NewWithOptions(neos []*models.NearEarthObject, approaches []*models.CloseApproach, opts Options) (*NEODatabase, error) {
	if opts.Logger == nil {
		opts.Logger = logger.ComponentLogger("database")
	}

	db := &NEODatabase{
		neos:          neos,
		approaches:    approaches,
		byDesignation: make(map[string]*models.NearEarthObject, len(neos)),
		byName:        make(map[string]*models.NearEarthObject),
		logger:        opts.Logger,
	}

	for _, neo := range neos {
		if prev, ok := db.byDesignation[neo.Designation]; ok && prev != neo {
			db.logger.Warnw("Duplicate NEO designation, keeping the later record",
				logger.FieldDesignation, neo.Designation)
		}
		db.byDesignation[neo.Designation] = neo
		if neo.HasName() {
			db.byName[neo.Name] = neo
		}
	}

	// Resolve every join key before linking so a failure leaves the inputs
	// untouched.
	owners := make([]*models.NearEarthObject, len(approaches))
	for i, approach := range approaches {
		neo, ok := db.byDesignation[approach.JoinKey()]
		if !ok {
			err := errors.Wrapf(errors.ErrLinkResolution,
				"approach %d references designation %q", i, approach.JoinKey())
			return nil, errors.WithHint(err, "the close approach file and the NEO file must come from the same data snapshot")
		}
		owners[i] = neo
	}
	for i, approach := range approaches {
		models.Link(owners[i], approach)
	}

	db.logger.Infow("Linked close approaches",
		logger.FieldNEOCount, len(neos),
		logger.FieldApproachCount, len(approaches),
		"named_neos", len(db.byName),
	)

	return db, nil
}

// GetNEOByDesignation returns the NEO with exactly this primary designation,
// or nil.
func (db *NEODatabase) GetNEOByDesignation(designation string) *models.NearEarthObject {
	return db.byDesignation[designation]
}

// GetNEOByName returns the NEO with this IAU name, or nil. name is
// capitalized (first letter upper case, the rest lower case) before the
// exact lookup, so "eros" and "EROS" both find "Eros".
func (db *NEODatabase) GetNEOByName(name string) *models.NearEarthObject {
	if name == "" {
		return nil
	}
	return db.byName[capitalize(name)]
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(strings.ToLower(s[size:]))
	return b.String()
}

// Len returns the number of NEOs loaded.
func (db *NEODatabase) Len() int {
	return len(db.neos)
}

// ApproachCount returns the number of close approaches loaded.
func (db *NEODatabase) ApproachCount() int {
	return len(db.approaches)
}

// NEOs yields every NEO in load order.
func (db *NEODatabase) NEOs() iter.Seq[*models.NearEarthObject] {
	return func(yield func(*models.NearEarthObject) bool) {
		for _, neo := range db.neos {
			if !yield(neo) {
				return
			}
		}
	}
}

// Query lazily yields the approaches that satisfy every predicate, in load
// order. With no predicates every approach is yielded. If a predicate fails,
// its error is yielded with a nil approach and the sequence ends.
func (db *NEODatabase) Query(predicates ...Predicate) iter.Seq2[*models.CloseApproach, error] {
	return func(yield func(*models.CloseApproach, error) bool) {
	approaches:
		for _, approach := range db.approaches {
			for _, p := range predicates {
				ok, err := p.Match(approach)
				if err != nil {
					yield(nil, err)
					return
				}
				if !ok {
					continue approaches
				}
			}
			if !yield(approach, nil) {
				return
			}
		}
	}
}
