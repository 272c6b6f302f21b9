/*
employee.go - Employee value record and gross-pay derivation

PURPOSE:
  An Employee describes one worker's pay basis, bonuses, custom deductions,
  and tax exemptions. The engine never mutates an Employee; the registry
  owns the records and replaces them wholesale on edit.

VALIDATION BOUNDARY:
  NewEmployee rejects unknown pay-basis tags and negative numeric fields.
  Once an Employee exists, the calculator assumes those invariants hold and
  only checks the inputs that can legitimately be absent (hours/days).
*/
package payroll

import "github.com/shopspring/decimal"

// Employee is a value record describing one worker's pay terms.
type Employee struct {
	ID   string
	Name string

	Basis      PayBasisType
	BasisValue decimal.Decimal // monthly salary, hourly rate, or daily rate

	// Present only when the basis needs them. Nil means "not entered",
	// which fails the calculation for this employee only.
	HoursWorked *decimal.Decimal
	DaysWorked  *decimal.Decimal

	Bonuses          []Bonus
	CustomDeductions []CustomDeduction

	TaxExemptions decimal.Decimal
}

// NewEmployee constructs a validated Employee. It rejects unrecognized pay
// bases and negative base salary, hours, days, or tax exemptions, so the
// calculator can rely on non-negativity downstream.
func NewEmployee(id, name string, basis PayBasisType, basisValue decimal.Decimal) (*Employee, error) {
	if !KnownPayBasis(basis) {
		return nil, ErrInvalidPayBasis
	}
	if basisValue.IsNegative() {
		return nil, &NegativeValueError{Field: "base_salary_value", Value: basisValue}
	}
	return &Employee{
		ID:            id,
		Name:          name,
		Basis:         basis,
		BasisValue:    basisValue,
		TaxExemptions: decimal.Zero,
	}, nil
}

// SetHoursWorked records hours worked, rejecting negative values.
func (e *Employee) SetHoursWorked(hours decimal.Decimal) error {
	if hours.IsNegative() {
		return &NegativeValueError{Field: "hours_worked", Value: hours}
	}
	e.HoursWorked = &hours
	return nil
}

// SetDaysWorked records days worked, rejecting negative values.
func (e *Employee) SetDaysWorked(days decimal.Decimal) error {
	if days.IsNegative() {
		return &NegativeValueError{Field: "days_worked", Value: days}
	}
	e.DaysWorked = &days
	return nil
}

// SetTaxExemptions records the exemption amount, rejecting negative values.
func (e *Employee) SetTaxExemptions(exemptions decimal.Decimal) error {
	if exemptions.IsNegative() {
		return &NegativeValueError{Field: "tax_exemptions", Value: exemptions}
	}
	e.TaxExemptions = exemptions
	return nil
}

// GrossPay derives gross pay from the pay basis, then applies bonuses in
// list order against a running total. An amount bonus adds its value; a
// percentage bonus adds value * (running total), so a later percentage
// bonus compounds on bonuses already added. That ordering is part of the
// contract and must not be "normalized".
func (e *Employee) GrossPay() (decimal.Decimal, error) {
	var gross decimal.Decimal

	switch e.Basis {
	case BasisMonthly:
		gross = e.BasisValue
	case BasisHourly:
		if e.HoursWorked == nil {
			return decimal.Zero, &MissingInputError{EmployeeID: e.ID, Basis: e.Basis, Field: "hours_worked"}
		}
		gross = e.BasisValue.Mul(*e.HoursWorked)
	case BasisDaily:
		if e.DaysWorked == nil {
			return decimal.Zero, &MissingInputError{EmployeeID: e.ID, Basis: e.Basis, Field: "days_worked"}
		}
		gross = e.BasisValue.Mul(*e.DaysWorked)
	default:
		// NewEmployee rejects unknown bases; hand-built records go here.
		return decimal.Zero, ErrInvalidPayBasis
	}

	for _, bonus := range e.Bonuses {
		switch bonus.Kind {
		case BonusAmount:
			gross = gross.Add(bonus.Value)
		case BonusPercentage:
			gross = gross.Add(gross.Mul(bonus.Value))
		}
	}

	return gross, nil
}

// Clone returns a deep copy so edits can be staged without touching the
// registry's record until saved.
func (e *Employee) Clone() *Employee {
	out := *e
	if e.HoursWorked != nil {
		h := *e.HoursWorked
		out.HoursWorked = &h
	}
	if e.DaysWorked != nil {
		d := *e.DaysWorked
		out.DaysWorked = &d
	}
	out.Bonuses = make([]Bonus, len(e.Bonuses))
	copy(out.Bonuses, e.Bonuses)
	out.CustomDeductions = make([]CustomDeduction, len(e.CustomDeductions))
	copy(out.CustomDeductions, e.CustomDeductions)
	return &out
}
