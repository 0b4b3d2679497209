// Package errors provides error handling for tabula.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Sentinel-based classification with errors.Is
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := materialize(); err != nil {
//	    return errors.Wrap(err, "failed to materialize column")
//	}
//
//	// Classify
//	if errors.Is(err, errors.ErrPlanMismatch) {
//	    // skip this column, leave the rest of the table intact
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
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the table engine.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrConfiguration indicates an invalid table construction: a duplicate
	// column name, a nil row selector or resolver, or more than one
	// entity-expandable source in a single table. Raised synchronously at
	// AddColumn/Build time and not recovered.
	ErrConfiguration = New("invalid table configuration")

	// ErrPlanMismatch indicates a computer received an execution plan lacking
	// the structural data it requires (e.g. an interval computer fed a
	// timestamp-only plan). Aborts only the offending column.
	ErrPlanMismatch = New("execution plan structure mismatch")

	// ErrDependencyCycle indicates a column transitively depends on itself.
	ErrDependencyCycle = New("column dependency cycle")

	// ErrTypeMismatch indicates a column was accessed at the wrong static type.
	ErrTypeMismatch = New("column type mismatch")

	// ErrColumnNotFound indicates the requested column does not exist.
	ErrColumnNotFound = New("column not found")

	// ErrSourceNotFound indicates a named data source could not be resolved.
	// Plan generation recovers from this locally by degrading to a
	// selector-only plan; it surfaces as an error only where a concrete
	// source is mandatory (registry construction, adapters).
	ErrSourceNotFound = New("data source not found")
)

// IsConfiguration checks if an error is or wraps ErrConfiguration.
func IsConfiguration(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

// IsPlanMismatch checks if an error is or wraps ErrPlanMismatch.
func IsPlanMismatch(err error) bool {
	return err != nil && Is(err, ErrPlanMismatch)
}

// IsDependencyCycle checks if an error is or wraps ErrDependencyCycle.
func IsDependencyCycle(err error) bool {
	return err != nil && Is(err, ErrDependencyCycle)
}

// IsTypeMismatch checks if an error is or wraps ErrTypeMismatch.
func IsTypeMismatch(err error) bool {
	return err != nil && Is(err, ErrTypeMismatch)
}

// NewConfigurationError creates a configuration error with a formatted message.
func NewConfigurationError(format string, args ...interface{}) error {
	return Wrap(ErrConfiguration, Newf(format, args...).Error())
}

// NewPlanMismatchError creates a plan mismatch error naming the computer and
// the structure it required.
func NewPlanMismatchError(computer, required string) error {
	return Wrapf(ErrPlanMismatch, "%s requires an execution plan with %s", computer, required)
}
