// Package errors provides error handling for neocad.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Wrap with context
//	if err := extract.LoadNEOs(path); err != nil {
//	    return errors.Wrap(err, "failed to load NEOs")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "check that the CAD file matches the NEO file")
//
//	// Check errors
//	if errors.Is(err, errors.ErrLinkResolution) {
//	    // data files are inconsistent
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Sentinel errors. Match them with errors.Is; wrap them to add context.
var (
	// ErrUnsupportedCriterion is returned when a filter has no way to read
	// the attribute it compares.
	ErrUnsupportedCriterion = New("unsupported criterion")

	// ErrLinkResolution is returned when a close approach references a
	// designation that no loaded NEO carries.
	ErrLinkResolution = New("close approach references unknown NEO")

	// ErrNotFound indicates the requested NEO does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates a malformed flag, path or argument
	ErrInvalidRequest = New("invalid request")
)

// IsUnsupportedCriterion checks if an error is or wraps ErrUnsupportedCriterion
func IsUnsupportedCriterion(err error) bool {
	return err != nil && Is(err, ErrUnsupportedCriterion)
}

// IsLinkResolution checks if an error is or wraps ErrLinkResolution
func IsLinkResolution(err error) bool {
	return err != nil && Is(err, ErrLinkResolution)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
