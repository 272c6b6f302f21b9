/*
Package factory converts on-disk payroll data into engine snapshots.

PURPOSE:
  The engine only ever sees validated in-memory values. This package owns
  the two on-disk formats and the validation between them and the engine:

    rules (YAML):      tax_brackets / social_security / deductions
    employees (JSON):  the employee registry records

WHY YAML FOR RULES?
  - Non-developers can edit brackets and rates
  - Comments survive in the file
  - The deductions mapping reads naturally as name -> rule

VALIDATION POLICY:
  Bad shape, rates outside [0,1], and negative amounts fail fast here,
  before any employee calculation begins. Bracket overlap and coverage
  gaps do NOT fail the load: the engine's tier walk tolerates both, so
  they are surfaced as lint findings for the caller to log or reject.

RULES SCHEMA:
  tax_brackets:
    - min_income: 0
      max_income: 1000     # omit for an unbounded top bracket
      rate: 0.10
  social_security:
    employee_rate: 0.08
    employer_rate: 0.12
    max_employee_contribution: 400.0   # omit for uncapped
    max_employer_contribution: 600.0
  deductions:
    pension:
      type: percentage
      rate: 0.05
    health_insurance:
      type: fixed
      amount: 50.0

SEE ALSO:
  - payroll/config.go: The snapshot these functions produce
  - employee.go: The employees JSON codec
*/
package factory

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/payroll-engine/payroll"
)

// DefaultRulesYAML is the stock configuration written when no rules file
// exists yet.
const DefaultRulesYAML = `tax_brackets:
  - min_income: 0
    max_income: 1000
    rate: 0.10
  - min_income: 1001
    max_income: 5000
    rate: 0.20
  - min_income: 5001
    rate: 0.30

social_security:
  employee_rate: 0.08
  employer_rate: 0.12
  max_employee_contribution: 400.0
  max_employer_contribution: 600.0

deductions:
  pension:
    type: percentage
    rate: 0.05
  health_insurance:
    type: fixed
    amount: 50.0
`

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

type rulesYAML struct {
	TaxBrackets    []bracketYAML `yaml:"tax_brackets"`
	SocialSecurity ssYAML        `yaml:"social_security"`
	// Deductions is kept as a raw node so the mapping's document order is
	// preserved; yaml.v3 map decoding would scramble it.
	Deductions yaml.Node `yaml:"deductions"`
}

type bracketYAML struct {
	MinIncome float64  `yaml:"min_income"`
	MaxIncome *float64 `yaml:"max_income,omitempty"`
	Rate      float64  `yaml:"rate"`
}

type ssYAML struct {
	EmployeeRate            float64  `yaml:"employee_rate"`
	EmployerRate            float64  `yaml:"employer_rate"`
	MaxEmployeeContribution *float64 `yaml:"max_employee_contribution,omitempty"`
	MaxEmployerContribution *float64 `yaml:"max_employer_contribution,omitempty"`
}

type deductionYAML struct {
	Type   string   `yaml:"type"`
	Amount *float64 `yaml:"amount,omitempty"`
	Rate   *float64 `yaml:"rate,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseRules decodes a YAML rules document into an immutable engine
// snapshot. It fails fast on bad shape, rates outside [0,1], or negative
// amounts; it does not reject bracket overlap (see LintBrackets).
func ParseRules(data []byte) (payroll.RuleConfig, error) {
	var raw rulesYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return payroll.RuleConfig{}, fmt.Errorf("%w: %v", payroll.ErrInvalidRuleConfig, err)
	}

	brackets := make([]payroll.TaxBracket, 0, len(raw.TaxBrackets))
	for i, b := range raw.TaxBrackets {
		if b.MinIncome < 0 {
			return payroll.RuleConfig{}, fmt.Errorf("%w: tax bracket %d: negative min_income", payroll.ErrInvalidRuleConfig, i)
		}
		if b.Rate < 0 || b.Rate > 1 {
			return payroll.RuleConfig{}, fmt.Errorf("%w: tax bracket %d: rate %.4f outside [0,1]", payroll.ErrInvalidRuleConfig, i, b.Rate)
		}
		if b.MaxIncome != nil && *b.MaxIncome < b.MinIncome {
			return payroll.RuleConfig{}, fmt.Errorf("%w: tax bracket %d: max_income below min_income", payroll.ErrInvalidRuleConfig, i)
		}
		brackets = append(brackets, payroll.TaxBracket{
			MinIncome: decimal.NewFromFloat(b.MinIncome),
			MaxIncome: optDecimal(b.MaxIncome),
			Rate:      decimal.NewFromFloat(b.Rate),
		})
	}

	ss, err := parseSocialSecurity(raw.SocialSecurity)
	if err != nil {
		return payroll.RuleConfig{}, err
	}

	defaults, err := parseDeductions(raw.Deductions)
	if err != nil {
		return payroll.RuleConfig{}, err
	}

	return payroll.NewRuleConfig(brackets, ss, defaults), nil
}

func parseSocialSecurity(raw ssYAML) (payroll.SocialSecurityRule, error) {
	if raw.EmployeeRate < 0 || raw.EmployeeRate > 1 {
		return payroll.SocialSecurityRule{}, fmt.Errorf("%w: employee_rate %.4f outside [0,1]", payroll.ErrInvalidRuleConfig, raw.EmployeeRate)
	}
	if raw.EmployerRate < 0 || raw.EmployerRate > 1 {
		return payroll.SocialSecurityRule{}, fmt.Errorf("%w: employer_rate %.4f outside [0,1]", payroll.ErrInvalidRuleConfig, raw.EmployerRate)
	}
	if raw.MaxEmployeeContribution != nil && *raw.MaxEmployeeContribution < 0 {
		return payroll.SocialSecurityRule{}, fmt.Errorf("%w: negative max_employee_contribution", payroll.ErrInvalidRuleConfig)
	}
	if raw.MaxEmployerContribution != nil && *raw.MaxEmployerContribution < 0 {
		return payroll.SocialSecurityRule{}, fmt.Errorf("%w: negative max_employer_contribution", payroll.ErrInvalidRuleConfig)
	}
	return payroll.SocialSecurityRule{
		EmployeeRate:            decimal.NewFromFloat(raw.EmployeeRate),
		EmployerRate:            decimal.NewFromFloat(raw.EmployerRate),
		MaxEmployeeContribution: optDecimal(raw.MaxEmployeeContribution),
		MaxEmployerContribution: optDecimal(raw.MaxEmployerContribution),
	}, nil
}

// parseDeductions walks the raw mapping node pairwise so deductions keep
// their document order; that order fixes the deduction breakdown order for
// every employee.
func parseDeductions(node yaml.Node) ([]payroll.DeductionRule, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: deductions must be a mapping", payroll.ErrInvalidRuleConfig)
	}

	var rules []payroll.DeductionRule
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var raw deductionYAML
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: deduction %q: %v", payroll.ErrInvalidRuleConfig, name, err)
		}

		rule := payroll.DeductionRule{Name: name}
		switch raw.Type {
		case string(payroll.DeductionFixed):
			if raw.Amount == nil {
				return nil, fmt.Errorf("%w: deduction %q: fixed type requires amount", payroll.ErrInvalidRuleConfig, name)
			}
			if *raw.Amount < 0 {
				return nil, fmt.Errorf("%w: deduction %q: negative amount", payroll.ErrInvalidRuleConfig, name)
			}
			rule.Kind = payroll.DeductionFixed
			rule.Amount = decimal.NewFromFloat(*raw.Amount)
		case string(payroll.DeductionPercentage):
			if raw.Rate == nil {
				return nil, fmt.Errorf("%w: deduction %q: percentage type requires rate", payroll.ErrInvalidRuleConfig, name)
			}
			if *raw.Rate < 0 || *raw.Rate > 1 {
				return nil, fmt.Errorf("%w: deduction %q: rate %.4f outside [0,1]", payroll.ErrInvalidRuleConfig, name, *raw.Rate)
			}
			rule.Kind = payroll.DeductionPercentage
			rule.Amount = decimal.NewFromFloat(*raw.Rate)
		default:
			return nil, fmt.Errorf("%w: deduction %q: unknown type %q", payroll.ErrInvalidRuleConfig, name, raw.Type)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func optDecimal(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

// =============================================================================
// ENCODING - Config edits produce a new file, never an in-place mutation
// =============================================================================

// EncodeRules renders a rule snapshot back to the YAML schema, preserving
// deduction order.
func EncodeRules(rules payroll.RuleConfig) ([]byte, error) {
	out := struct {
		TaxBrackets    []bracketYAML `yaml:"tax_brackets"`
		SocialSecurity ssYAML        `yaml:"social_security"`
		Deductions     yaml.Node     `yaml:"deductions"`
	}{}

	for _, b := range rules.Brackets() {
		yb := bracketYAML{MinIncome: toFloat(b.MinIncome), Rate: toFloat(b.Rate)}
		if b.MaxIncome != nil {
			f := toFloat(*b.MaxIncome)
			yb.MaxIncome = &f
		}
		out.TaxBrackets = append(out.TaxBrackets, yb)
	}

	ss := rules.SocialSecurity()
	out.SocialSecurity = ssYAML{
		EmployeeRate: toFloat(ss.EmployeeRate),
		EmployerRate: toFloat(ss.EmployerRate),
	}
	if ss.MaxEmployeeContribution != nil {
		f := toFloat(*ss.MaxEmployeeContribution)
		out.SocialSecurity.MaxEmployeeContribution = &f
	}
	if ss.MaxEmployerContribution != nil {
		f := toFloat(*ss.MaxEmployerContribution)
		out.SocialSecurity.MaxEmployerContribution = &f
	}

	out.Deductions = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, d := range rules.DefaultDeductions() {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.Name}
		var valNode yaml.Node
		raw := deductionYAML{Type: string(d.Kind)}
		f := toFloat(d.Amount)
		if d.Kind == payroll.DeductionFixed {
			raw.Amount = &f
		} else {
			raw.Rate = &f
		}
		if err := valNode.Encode(raw); err != nil {
			return nil, err
		}
		out.Deductions.Content = append(out.Deductions.Content, keyNode, &valNode)
	}

	return yaml.Marshal(out)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// =============================================================================
// FILE HELPERS
// =============================================================================

// LoadRulesFile reads and parses a rules file. When the file does not
// exist, it writes DefaultRulesYAML there first and parses that, matching
// the first-run behavior users expect.
func LoadRulesFile(path string) (payroll.RuleConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data = []byte(DefaultRulesYAML)
		if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
			return payroll.RuleConfig{}, fmt.Errorf("writing default rules: %w", writeErr)
		}
	} else if err != nil {
		return payroll.RuleConfig{}, fmt.Errorf("reading rules: %w", err)
	}
	return ParseRules(data)
}

// SaveRulesFile writes a rule snapshot to path atomically enough for a
// single-user tool (write then rename is overkill here; the original tool
// rewrote the file in place too).
func SaveRulesFile(path string, rules payroll.RuleConfig) error {
	data, err := EncodeRules(rules)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// =============================================================================
// BRACKET LINT - Caller-side, never an engine invariant
// =============================================================================

// LintBrackets reports overlap and coverage-gap findings on the bracket
// set. The engine tolerates both (overlaps double-tax, gaps tax nothing),
// so findings are advisory: callers typically log them next to the load.
func LintBrackets(rules payroll.RuleConfig) []string {
	brackets := rules.Brackets()
	var findings []string

	for i := 1; i < len(brackets); i++ {
		prev, cur := brackets[i-1], brackets[i]
		if prev.MaxIncome == nil {
			findings = append(findings, fmt.Sprintf(
				"bracket %d is unbounded but bracket %d starts at %s", i-1, i, cur.MinIncome))
			continue
		}
		switch {
		case cur.MinIncome.LessThan(*prev.MaxIncome):
			findings = append(findings, fmt.Sprintf(
				"brackets %d and %d overlap between %s and %s", i-1, i, cur.MinIncome, *prev.MaxIncome))
		case cur.MinIncome.GreaterThan(*prev.MaxIncome):
			findings = append(findings, fmt.Sprintf(
				"coverage gap between %s and %s (income there is untaxed)", *prev.MaxIncome, cur.MinIncome))
		}
	}

	if len(brackets) > 0 && !brackets[0].MinIncome.IsZero() {
		findings = append(findings, fmt.Sprintf(
			"coverage starts at %s, income below is untaxed", brackets[0].MinIncome))
	}
	return findings
}
