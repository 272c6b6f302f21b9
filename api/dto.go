/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's decimal-based domain model from the wire: DTOs carry
  float64 (rounded at the edge), the engine keeps exact decimals.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

ORDERING ON THE WIRE:
  JSON objects do not guarantee key order, so ordered breakdowns are
  serialized as arrays of {name, amount} pairs rather than maps. The
  array order is the engine's breakdown order.

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/result.go: The domain types behind them
*/
package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// EMPLOYEE TYPES
// =============================================================================

// EmployeeDTO represents an employee on the wire.
type EmployeeDTO struct {
	EmployeeID       string         `json:"employee_id"`
	Name             string         `json:"name"`
	BaseSalaryType   string         `json:"base_salary_type"`
	BaseSalaryValue  float64        `json:"base_salary_value"`
	Bonuses          []EntryDTO     `json:"bonuses,omitempty"`
	CustomDeductions []EntryDTO     `json:"custom_deductions,omitempty"`
	HoursWorked      *float64       `json:"hours_worked,omitempty"`
	DaysWorked       *float64       `json:"days_worked,omitempty"`
	TaxExemptions    float64        `json:"tax_exemptions"`
}

// EntryDTO is one bonus or custom deduction.
type EntryDTO struct {
	Name  string  `json:"name,omitempty"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// SaveEmployeeRequest creates or replaces an employee record.
type SaveEmployeeRequest = EmployeeDTO

// =============================================================================
// PAYROLL RESULT TYPES
// =============================================================================

// AmountDTO is one named amount from an ordered breakdown.
type AmountDTO struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ResultDTO is the computed payroll breakdown for one employee.
type ResultDTO struct {
	EmployeeID            string      `json:"employee_id"`
	GrossPay              float64     `json:"gross_pay"`
	NetPay                float64     `json:"net_pay"`
	Taxes                 []AmountDTO `json:"taxes_breakdown"`
	Deductions            []AmountDTO `json:"deductions_breakdown"`
	EmployerContributions []AmountDTO `json:"employer_contributions_breakdown"`
	Summary               string      `json:"summary"`
}

// FailureDTO is one per-employee batch failure.
type FailureDTO struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// BatchResultDTO is a full payroll run: successes in processing order
// plus per-employee failures.
type BatchResultDTO struct {
	Results  []ResultDTO  `json:"results"`
	Failures []FailureDTO `json:"failures"`
}

// =============================================================================
// RULES TYPES
// =============================================================================

// RulesDTO mirrors the YAML rules schema on the wire.
type RulesDTO struct {
	TaxBrackets    []BracketDTO   `json:"tax_brackets"`
	SocialSecurity SocialSecDTO   `json:"social_security"`
	Deductions     []DeductionDTO `json:"deductions"`
}

// BracketDTO is one marginal tax tier; a nil MaxIncome means unbounded.
type BracketDTO struct {
	MinIncome float64  `json:"min_income"`
	MaxIncome *float64 `json:"max_income,omitempty"`
	Rate      float64  `json:"rate"`
}

// SocialSecDTO carries both contribution sides; nil caps mean uncapped.
type SocialSecDTO struct {
	EmployeeRate            float64  `json:"employee_rate"`
	EmployerRate            float64  `json:"employer_rate"`
	MaxEmployeeContribution *float64 `json:"max_employee_contribution,omitempty"`
	MaxEmployerContribution *float64 `json:"max_employer_contribution,omitempty"`
}

// DeductionDTO is one default deduction; order in the array is the
// breakdown order.
type DeductionDTO struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// ReportDTO is the aggregate view over one payroll run.
type ReportDTO struct {
	EmployeeCount int     `json:"employee_count"`
	SucceededRuns int     `json:"succeeded_runs"`
	FailedRuns    int     `json:"failed_runs"`
	TotalGrossPay float64 `json:"total_gross_pay"`
	TotalNetPay   float64 `json:"total_net_pay"`
	TotalWithheld float64 `json:"total_withheld"`
}

// =============================================================================
// DOMAIN <-> DTO CONVERSION
// =============================================================================

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func optFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := toFloat(*d)
	return &f
}

func optDec(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func breakdownDTO(b *payroll.Breakdown) []AmountDTO {
	out := make([]AmountDTO, 0, b.Len())
	b.Each(func(name string, amount decimal.Decimal) {
		out = append(out, AmountDTO{Name: name, Amount: toFloat(amount)})
	})
	return out
}

func resultDTO(employeeID string, r *payroll.Result) ResultDTO {
	return ResultDTO{
		EmployeeID:            employeeID,
		GrossPay:              toFloat(r.GrossPay),
		NetPay:                toFloat(r.NetPay),
		Taxes:                 breakdownDTO(r.Taxes),
		Deductions:            breakdownDTO(r.Deductions),
		EmployerContributions: breakdownDTO(r.EmployerContributions),
		Summary:               r.Summary(),
	}
}

func employeeDTO(emp *payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		EmployeeID:      emp.ID,
		Name:            emp.Name,
		BaseSalaryType:  string(emp.Basis),
		BaseSalaryValue: toFloat(emp.BasisValue),
		HoursWorked:     optFloat(emp.HoursWorked),
		DaysWorked:      optFloat(emp.DaysWorked),
		TaxExemptions:   toFloat(emp.TaxExemptions),
	}
	for _, b := range emp.Bonuses {
		dto.Bonuses = append(dto.Bonuses, EntryDTO{Name: b.Name, Type: string(b.Kind), Value: toFloat(b.Value)})
	}
	for _, d := range emp.CustomDeductions {
		dto.CustomDeductions = append(dto.CustomDeductions, EntryDTO{Name: d.Name, Type: string(d.Kind), Value: toFloat(d.Value)})
	}
	return dto
}

func employeeFromDTO(dto EmployeeDTO) (*payroll.Employee, error) {
	emp, err := payroll.NewEmployee(dto.EmployeeID, dto.Name,
		payroll.PayBasisType(dto.BaseSalaryType), decimal.NewFromFloat(dto.BaseSalaryValue))
	if err != nil {
		return nil, err
	}
	if dto.HoursWorked != nil {
		if err := emp.SetHoursWorked(decimal.NewFromFloat(*dto.HoursWorked)); err != nil {
			return nil, err
		}
	}
	if dto.DaysWorked != nil {
		if err := emp.SetDaysWorked(decimal.NewFromFloat(*dto.DaysWorked)); err != nil {
			return nil, err
		}
	}
	if err := emp.SetTaxExemptions(decimal.NewFromFloat(dto.TaxExemptions)); err != nil {
		return nil, err
	}
	for _, b := range dto.Bonuses {
		kind := payroll.BonusKind(b.Type)
		if kind != payroll.BonusAmount && kind != payroll.BonusPercentage {
			return nil, fmt.Errorf("%w: bonus type %q", payroll.ErrUnknownEntryKind, b.Type)
		}
		emp.Bonuses = append(emp.Bonuses, payroll.Bonus{Name: b.Name, Kind: kind, Value: decimal.NewFromFloat(b.Value)})
	}
	for _, d := range dto.CustomDeductions {
		kind := payroll.DeductionKind(d.Type)
		if kind != payroll.DeductionFixed && kind != payroll.DeductionPercentage {
			return nil, fmt.Errorf("%w: deduction type %q", payroll.ErrUnknownEntryKind, d.Type)
		}
		emp.CustomDeductions = append(emp.CustomDeductions, payroll.CustomDeduction{Name: d.Name, Kind: kind, Value: decimal.NewFromFloat(d.Value)})
	}
	return emp, nil
}

func rulesDTO(rules payroll.RuleConfig) RulesDTO {
	dto := RulesDTO{}
	for _, b := range rules.Brackets() {
		dto.TaxBrackets = append(dto.TaxBrackets, BracketDTO{
			MinIncome: toFloat(b.MinIncome),
			MaxIncome: optFloat(b.MaxIncome),
			Rate:      toFloat(b.Rate),
		})
	}
	ss := rules.SocialSecurity()
	dto.SocialSecurity = SocialSecDTO{
		EmployeeRate:            toFloat(ss.EmployeeRate),
		EmployerRate:            toFloat(ss.EmployerRate),
		MaxEmployeeContribution: optFloat(ss.MaxEmployeeContribution),
		MaxEmployerContribution: optFloat(ss.MaxEmployerContribution),
	}
	for _, d := range rules.DefaultDeductions() {
		dto.Deductions = append(dto.Deductions, DeductionDTO{Name: d.Name, Type: string(d.Kind), Value: toFloat(d.Amount)})
	}
	return dto
}

func rulesFromDTO(dto RulesDTO) payroll.RuleConfig {
	brackets := make([]payroll.TaxBracket, 0, len(dto.TaxBrackets))
	for _, b := range dto.TaxBrackets {
		brackets = append(brackets, payroll.TaxBracket{
			MinIncome: decimal.NewFromFloat(b.MinIncome),
			MaxIncome: optDec(b.MaxIncome),
			Rate:      decimal.NewFromFloat(b.Rate),
		})
	}
	ss := payroll.SocialSecurityRule{
		EmployeeRate:            decimal.NewFromFloat(dto.SocialSecurity.EmployeeRate),
		EmployerRate:            decimal.NewFromFloat(dto.SocialSecurity.EmployerRate),
		MaxEmployeeContribution: optDec(dto.SocialSecurity.MaxEmployeeContribution),
		MaxEmployerContribution: optDec(dto.SocialSecurity.MaxEmployerContribution),
	}
	defaults := make([]payroll.DeductionRule, 0, len(dto.Deductions))
	for _, d := range dto.Deductions {
		defaults = append(defaults, payroll.DeductionRule{
			Name:   d.Name,
			Kind:   payroll.DeductionKind(d.Type),
			Amount: decimal.NewFromFloat(d.Value),
		})
	}
	return payroll.NewRuleConfig(brackets, ss, defaults)
}
