/*
calculator.go - The payroll calculation pass

PURPOSE:
  Maps (Employee, RuleConfig) -> Result. A Calculator is bound to one
  immutable rule snapshot; every calculation against it is a pure function
  of the employee record, so batches may run in any order (or in parallel)
  without changing any single employee's numbers.

CALCULATION ORDER (fixed):
  1. Gross pay from the employee's own pay basis + bonuses
  2. Progressive income tax over max(0, gross - exemptions)
  3. Employee social security, capped
  4. Default deductions in config order, overlaid by custom deductions
  5. Net = gross - taxes - deductions (never floored at zero)
  6. Employer social security, reported separately, not subtracted

BRACKET ALGORITHM NOTE:
  IncomeTax reproduces the tier walk exactly as specified, including the
  early exit that skips remaining brackets once taxable income falls at or
  below a bracket's minimum - unless that minimum is zero, which never
  short-circuits. Overlapping or gapped brackets are not corrected here;
  the loader lints them (factory.LintBrackets) and the engine computes
  whatever the snapshot says.
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// Calculator computes payroll results against one rule snapshot.
type Calculator struct {
	rules RuleConfig
}

// NewCalculator binds a calculator to a rule snapshot.
func NewCalculator(rules RuleConfig) *Calculator {
	return &Calculator{rules: rules}
}

// Rules returns the snapshot this calculator is bound to.
func (c *Calculator) Rules() RuleConfig { return c.rules }

// =============================================================================
// INCOME TAX - Progressive marginal-rate walk
// =============================================================================

// IncomeTax computes the progressive income tax on gross pay after
// exemptions. Brackets are walked in ascending MinIncome order, each tier
// taxing the slice of income between max(bracket min, previous tier max)
// and min(taxable, bracket max). Gaps between brackets simply tax nothing.
func (c *Calculator) IncomeTax(gross, exemptions decimal.Decimal) decimal.Decimal {
	taxable := gross.Sub(exemptions)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	total := decimal.Zero
	previousTierMax := decimal.Zero

	for _, bracket := range c.rules.brackets {
		// No more tax applies past this point. A zero-minimum bracket
		// never short-circuits.
		if taxable.LessThanOrEqual(bracket.MinIncome) && !bracket.MinIncome.IsZero() {
			break
		}

		upper := taxable
		if bracket.MaxIncome != nil && bracket.MaxIncome.LessThan(upper) {
			upper = *bracket.MaxIncome
		}

		lower := bracket.MinIncome
		if previousTierMax.GreaterThan(lower) {
			lower = previousTierMax
		}

		inTier := upper.Sub(lower)
		if inTier.IsNegative() {
			inTier = decimal.Zero
		}
		total = total.Add(inTier.Mul(bracket.Rate))

		tierMax := taxable
		if bracket.MaxIncome != nil {
			tierMax = *bracket.MaxIncome
		}
		if tierMax.GreaterThan(previousTierMax) {
			previousTierMax = tierMax
		}
	}

	return total
}

// =============================================================================
// SOCIAL SECURITY
// =============================================================================

func cappedContribution(gross, rate decimal.Decimal, cap *decimal.Decimal) decimal.Decimal {
	contribution := gross.Mul(rate)
	if cap != nil && contribution.GreaterThan(*cap) {
		contribution = *cap
	}
	return contribution
}

// EmployeeSocialSecurity computes the employee-side contribution, clamped
// at the configured cap.
func (c *Calculator) EmployeeSocialSecurity(gross decimal.Decimal) decimal.Decimal {
	ss := c.rules.socialSecurity
	return cappedContribution(gross, ss.EmployeeRate, ss.MaxEmployeeContribution)
}

// EmployerSocialSecurity computes the employer-side contribution, clamped
// at the configured cap. Reported, never subtracted from net pay.
func (c *Calculator) EmployerSocialSecurity(gross decimal.Decimal) decimal.Decimal {
	ss := c.rules.socialSecurity
	return cappedContribution(gross, ss.EmployerRate, ss.MaxEmployerContribution)
}

// =============================================================================
// DEDUCTIONS
// =============================================================================

func evaluateDeduction(kind DeductionKind, value, gross decimal.Decimal) decimal.Decimal {
	if kind == DeductionPercentage {
		return gross.Mul(value)
	}
	return value
}

// deductions assembles the deduction breakdown: defaults first in config
// order, then the employee's custom deductions in list order. A custom
// deduction that reuses a default's name replaces its amount in place.
func (c *Calculator) deductions(gross decimal.Decimal, custom []CustomDeduction) *Breakdown {
	out := NewBreakdown()
	for _, rule := range c.rules.defaultDeductions {
		out.Set(rule.Name, evaluateDeduction(rule.Kind, rule.Amount, gross))
	}
	for _, ded := range custom {
		out.Set(ded.Name, evaluateDeduction(ded.Kind, ded.Value, gross))
	}
	return out
}

// =============================================================================
// FULL PASS
// =============================================================================

// Calculate runs a full payroll pass for one employee. Failures (missing
// hours/days) are attributable to this employee only.
func (c *Calculator) Calculate(employee *Employee) (*Result, error) {
	gross, err := employee.GrossPay()
	if err != nil {
		return nil, err
	}

	taxes := NewBreakdown()
	taxes.Set(TaxIncome, c.IncomeTax(gross, employee.TaxExemptions))
	taxes.Set(TaxEmployeeSocialSec, c.EmployeeSocialSecurity(gross))

	deductions := c.deductions(gross, employee.CustomDeductions)

	// Net pay may go negative when withholdings exceed gross; that is
	// passed through, not clamped.
	net := gross.Sub(taxes.Total()).Sub(deductions.Total())

	employer := NewBreakdown()
	employer.Set(ContribEmployerSocSec, c.EmployerSocialSecurity(gross))

	return &Result{
		GrossPay:              gross,
		NetPay:                net,
		Taxes:                 taxes,
		Deductions:            deductions,
		EmployerContributions: employer,
	}, nil
}

// =============================================================================
// BATCH PROCESSING
// =============================================================================

// BatchEntry pairs an employee id with its computed result, preserving the
// order employees were processed in.
type BatchEntry struct {
	EmployeeID string
	Result     *Result
}

// BatchFailure records a per-employee calculation failure.
type BatchFailure struct {
	EmployeeID string
	Err        error
}

// BatchResult collects a batch run: successes in processing order plus
// per-employee failures. A failure never aborts the batch.
type BatchResult struct {
	Results  []BatchEntry
	Failures []BatchFailure
}

// ResultFor returns the result for an employee id, if it succeeded.
func (b *BatchResult) ResultFor(id string) (*Result, bool) {
	for _, entry := range b.Results {
		if entry.EmployeeID == id {
			return entry.Result, true
		}
	}
	return nil, false
}

// CalculateAll processes employees independently in the given order. Each
// employee either contributes a result or a failure; other employees are
// unaffected either way.
func (c *Calculator) CalculateAll(employees []*Employee) *BatchResult {
	batch := &BatchResult{}
	for _, emp := range employees {
		result, err := c.Calculate(emp)
		if err != nil {
			batch.Failures = append(batch.Failures, BatchFailure{EmployeeID: emp.ID, Err: err})
			continue
		}
		batch.Results = append(batch.Results, BatchEntry{EmployeeID: emp.ID, Result: result})
	}
	return batch
}
