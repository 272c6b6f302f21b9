/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (loaders, HTTP handlers) match with errors.Is/errors.As.

ERROR CATEGORIES:
  1. Construction errors - Invalid employee records, rejected at the boundary
  2. Calculation errors  - Missing inputs surfaced per employee
  3. Config errors       - Bad rule-config shape, rejected at load time

PROPAGATION POLICY:
  Calculation failures are local to one employee and reported individually;
  a batch run never aborts on them. Config errors fail fast before any
  employee calculation begins.
*/
package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPayBasis is returned when an employee's pay-basis tag is
	// not monthly, hourly, or daily. Rejected at Employee construction.
	ErrInvalidPayBasis = errors.New("invalid pay basis")

	// ErrMissingInput is returned when an hourly employee lacks hours
	// worked, or a daily employee lacks days worked, at calculation time.
	ErrMissingInput = errors.New("missing calculation input")

	// ErrNegativeValue is returned when a negative base salary, hours,
	// days, or tax exemption is supplied at entry/edit time.
	ErrNegativeValue = errors.New("negative value")

	// ErrInvalidRuleConfig is returned when a rule config has a bad shape
	// or out-of-range rates at load time.
	ErrInvalidRuleConfig = errors.New("invalid rule config")

	// ErrUnknownEntryKind is returned when a bonus or deduction carries a
	// kind tag other than the recognized variants.
	ErrUnknownEntryKind = errors.New("unknown bonus or deduction kind")

	// ErrEmployeeNotFound is returned when a referenced employee does not
	// exist in the registry or store.
	ErrEmployeeNotFound = errors.New("employee not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingInputError reports which input a pay basis required but did not get.
type MissingInputError struct {
	EmployeeID string
	Basis      PayBasisType
	Field      string // "hours_worked" or "days_worked"
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("employee %s: %s pay basis requires %s", e.EmployeeID, e.Basis, e.Field)
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }

// NegativeValueError reports a negative value supplied for a field that
// must be non-negative.
type NegativeValueError struct {
	Field string
	Value decimal.Decimal
}

func (e *NegativeValueError) Error() string {
	return fmt.Sprintf("%s must not be negative (got %s)", e.Field, e.Value)
}

func (e *NegativeValueError) Unwrap() error { return ErrNegativeValue }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPayBasis) ||
		errors.Is(err, ErrMissingInput) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrInvalidRuleConfig) ||
		errors.Is(err, ErrUnknownEntryKind)
}

// IsNotFound returns true if the error indicates a missing employee.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}
