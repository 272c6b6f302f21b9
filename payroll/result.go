/*
result.go - Computed payroll breakdown and its textual summary

PURPOSE:
  A Result is the computed breakdown for one employee and one rule
  snapshot: gross pay, taxes, deductions, net pay, and the employer-side
  contributions. Created fresh per calculation and never mutated.

SUMMARY DETERMINISM:
  Summary renders in a fixed order - gross, taxes (income tax first, then
  employee social security), deductions in assembly order, net, employer
  contributions - with exactly two decimal places. The text is stable for
  a given (employee, config) pair, so callers can diff or log it.
*/
package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Result is the computed payroll breakdown for one employee.
type Result struct {
	GrossPay decimal.Decimal
	NetPay   decimal.Decimal

	// Taxes holds employee-side taxes: income_tax first, then
	// employee_social_security.
	Taxes *Breakdown

	// Deductions holds default deductions in config order, overlaid by
	// the employee's custom deductions.
	Deductions *Breakdown

	// EmployerContributions is informational; it is not part of NetPay.
	EmployerContributions *Breakdown
}

// TotalWithheld sums employee-side taxes and deductions.
func (r *Result) TotalWithheld() decimal.Decimal {
	return r.Taxes.Total().Add(r.Deductions.Total())
}

// Summary renders the deterministic text form of the result. Values use
// exactly two decimal places.
func (r *Result) Summary() string {
	var sb strings.Builder

	sb.WriteString("Payroll Summary:\n")
	sb.WriteString("  Gross Pay: " + r.GrossPay.StringFixed(2) + "\n")
	sb.WriteString("  Employee Withholdings:\n")
	r.Taxes.Each(func(name string, amount decimal.Decimal) {
		sb.WriteString("    - " + name + ": " + amount.StringFixed(2) + "\n")
	})
	r.Deductions.Each(func(name string, amount decimal.Decimal) {
		sb.WriteString("    - " + name + ": " + amount.StringFixed(2) + "\n")
	})
	sb.WriteString("  Net Pay: " + r.NetPay.StringFixed(2) + "\n")

	if r.EmployerContributions != nil && r.EmployerContributions.Len() > 0 {
		sb.WriteString("  Employer Contributions:\n")
		r.EmployerContributions.Each(func(name string, amount decimal.Decimal) {
			sb.WriteString("    - " + name + ": " + amount.StringFixed(2) + "\n")
		})
	}

	return sb.String()
}
