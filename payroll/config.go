/*
config.go - Tax, social-security, and deduction rules

PURPOSE:
  Defines the immutable rule snapshot the calculator runs against: a set of
  progressive tax brackets, one social-security rule with per-side caps,
  and the default deductions applied to every employee.

SNAPSHOT SEMANTICS:
  RuleConfig is constructed once (at load time or after a config edit) and
  never mutated during a calculation pass. Editing rules produces a NEW
  snapshot; calculators bound to the old snapshot keep computing against it.
  This keeps parallel batch runs race-free without locking.

WHAT THE ENGINE DOES NOT VALIDATE:
  Bracket overlap, deduction percentages outside [0,1], and social-security
  rates outside [0,1] are caller responsibilities at load time. The engine
  computes whatever the snapshot says. See factory.ParseRules and
  factory.LintBrackets.

SEE ALSO:
  - calculator.go: Consumes RuleConfig
  - factory/config.go: YAML loading, validation, and bracket lint
*/
package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TAX BRACKETS
// =============================================================================

// TaxBracket is one marginal-rate tier. MaxIncome == nil means the bracket
// is unbounded above (taxed to infinity).
type TaxBracket struct {
	MinIncome decimal.Decimal
	MaxIncome *decimal.Decimal
	Rate      decimal.Decimal
}

// Unbounded reports whether the bracket has no upper bound.
func (b TaxBracket) Unbounded() bool { return b.MaxIncome == nil }

// =============================================================================
// SOCIAL SECURITY
// =============================================================================

// SocialSecurityRule holds employee- and employer-side contribution rates
// and caps. A nil cap means the contribution is uncapped.
type SocialSecurityRule struct {
	EmployeeRate            decimal.Decimal
	EmployerRate            decimal.Decimal
	MaxEmployeeContribution *decimal.Decimal
	MaxEmployerContribution *decimal.Decimal
}

// =============================================================================
// DEDUCTIONS
// =============================================================================

// DeductionRule is a named default deduction from the rule config. For
// DeductionFixed the amount is absolute currency; for DeductionPercentage
// it is a fraction of gross pay.
type DeductionRule struct {
	Name   string
	Kind   DeductionKind
	Amount decimal.Decimal
}

// =============================================================================
// RULE CONFIG - Immutable snapshot
// =============================================================================

// RuleConfig is the validated in-memory rule snapshot handed to a
// Calculator. Construct with NewRuleConfig; do not mutate after that.
type RuleConfig struct {
	brackets          []TaxBracket
	socialSecurity    SocialSecurityRule
	defaultDeductions []DeductionRule
}

// NewRuleConfig builds a snapshot. Brackets are copied and sorted by
// MinIncome ascending (they need not arrive sorted); default deductions are
// copied keeping their given order, which fixes the deduction breakdown
// order for every employee.
func NewRuleConfig(brackets []TaxBracket, ss SocialSecurityRule, defaults []DeductionRule) RuleConfig {
	bs := make([]TaxBracket, len(brackets))
	copy(bs, brackets)
	sort.SliceStable(bs, func(i, j int) bool {
		return bs[i].MinIncome.LessThan(bs[j].MinIncome)
	})

	ds := make([]DeductionRule, len(defaults))
	copy(ds, defaults)

	return RuleConfig{brackets: bs, socialSecurity: ss, defaultDeductions: ds}
}

// Brackets returns the tax brackets sorted by MinIncome ascending.
func (c RuleConfig) Brackets() []TaxBracket {
	out := make([]TaxBracket, len(c.brackets))
	copy(out, c.brackets)
	return out
}

// SocialSecurity returns the social-security rule.
func (c RuleConfig) SocialSecurity() SocialSecurityRule { return c.socialSecurity }

// DefaultDeductions returns the default deductions in config order.
func (c RuleConfig) DefaultDeductions() []DeductionRule {
	out := make([]DeductionRule, len(c.defaultDeductions))
	copy(out, c.defaultDeductions)
	return out
}
