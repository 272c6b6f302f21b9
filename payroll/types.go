/*
Package payroll provides the core payroll calculation engine.

PURPOSE:
  This package contains the types and algorithms for computing one pay
  period for one employee: gross pay from a pay basis plus bonuses, a
  progressive income tax, capped social-security contributions (employee
  and employer sides), and a set of named deductions, yielding net pay.

KEY CONCEPTS IN THIS FILE (types.go):
  - Breakdown: An insertion-ordered name -> amount map (ledger-style)
  - PayBasisType: Monthly / Hourly / Daily tagged variant
  - Bonus: An amount or percentage adjustment applied to gross pay
  - DeductionKind: Fixed or percentage deduction rules

DESIGN PRINCIPLES:
  1. Immutability: RuleConfig is a snapshot; Results are created fresh
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Determinism: Ordered breakdowns give reproducible summaries
  4. Isolation: One employee's failure never affects another's run

USAGE:
  calc := payroll.NewCalculator(rules)
  result, err := calc.Calculate(employee)

SEE ALSO:
  - config.go: Tax brackets, social security, deduction rules
  - employee.go: Employee record and gross-pay derivation
  - calculator.go: The calculation pass
  - result.go: Computed breakdown and textual summary
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// BREAKDOWN - Insertion-ordered name -> amount map
// =============================================================================

// Breakdown records named amounts in insertion order. Setting an existing
// name overwrites its amount but keeps its original position, which gives
// the override-by-name semantics deductions rely on: exactly one entry per
// name, last write wins, first position wins.
type Breakdown struct {
	names   []string
	amounts map[string]decimal.Decimal
}

func NewBreakdown() *Breakdown {
	return &Breakdown{amounts: make(map[string]decimal.Decimal)}
}

// Set records an amount under a name. A repeated name replaces the amount
// in place; it does not move to the end.
func (b *Breakdown) Set(name string, amount decimal.Decimal) {
	if _, ok := b.amounts[name]; !ok {
		b.names = append(b.names, name)
	}
	b.amounts[name] = amount
}

// Get returns the amount for a name.
func (b *Breakdown) Get(name string) (decimal.Decimal, bool) {
	a, ok := b.amounts[name]
	return a, ok
}

// Names returns the entry names in insertion order.
func (b *Breakdown) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Len returns the number of entries.
func (b *Breakdown) Len() int { return len(b.names) }

// Total sums all amounts.
func (b *Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, name := range b.names {
		total = total.Add(b.amounts[name])
	}
	return total
}

// Each visits entries in insertion order.
func (b *Breakdown) Each(fn func(name string, amount decimal.Decimal)) {
	for _, name := range b.names {
		fn(name, b.amounts[name])
	}
}

// =============================================================================
// PAY BASIS - How base gross pay is derived
// =============================================================================

// PayBasisType tags how an employee's base pay is computed.
type PayBasisType string

const (
	BasisMonthly PayBasisType = "monthly" // gross = value
	BasisHourly  PayBasisType = "hourly"  // gross = rate * hours worked
	BasisDaily   PayBasisType = "daily"   // gross = rate * days worked
)

// KnownPayBasis reports whether t is one of the recognized pay bases.
func KnownPayBasis(t PayBasisType) bool {
	switch t {
	case BasisMonthly, BasisHourly, BasisDaily:
		return true
	}
	return false
}

// =============================================================================
// BONUS - Ordered gross-pay adjustment
// =============================================================================

// BonusKind tags how a bonus contributes to gross pay.
type BonusKind string

const (
	// BonusAmount adds its value directly to the running gross total.
	BonusAmount BonusKind = "amount"

	// BonusPercentage adds value * (current running total). Percentage
	// bonuses therefore compound on bonuses applied before them, not on
	// the base gross alone. List order is load-bearing.
	BonusPercentage BonusKind = "percentage"
)

// Bonus is one ordered adjustment to gross pay.
type Bonus struct {
	Name  string
	Kind  BonusKind
	Value decimal.Decimal
}

// =============================================================================
// DEDUCTION KINDS
// =============================================================================

// DeductionKind tags how a deduction amount is evaluated.
type DeductionKind string

const (
	// DeductionFixed deducts an absolute currency amount.
	DeductionFixed DeductionKind = "fixed"

	// DeductionPercentage deducts a fraction of gross pay.
	DeductionPercentage DeductionKind = "percentage"
)

// CustomDeduction is an employee-specific deduction. A custom deduction
// whose name matches a default deduction replaces it.
type CustomDeduction struct {
	Name  string
	Kind  DeductionKind
	Value decimal.Decimal
}

// =============================================================================
// BREAKDOWN ENTRY NAMES - Fixed keys used by the calculator
// =============================================================================

const (
	TaxIncome             = "income_tax"
	TaxEmployeeSocialSec  = "employee_social_security"
	ContribEmployerSocSec = "employer_social_security"
)
