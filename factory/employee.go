/*
employee.go - Employees JSON codec

PURPOSE:
  Converts the on-disk employees list (a JSON array) to and from engine
  Employee records. The schema matches what the desktop tool has always
  written, so existing data files load unchanged:

    [{
      "employee_id": "EMP001",
      "name": "Jane Doe",
      "base_salary_type": "monthly",
      "base_salary_value": 4500.0,
      "bonuses": [{"name": "signing", "type": "amount", "value": 100}],
      "custom_deductions": [{"name": "pension", "type": "fixed", "value": 75}],
      "hours_worked": null,
      "days_worked": null,
      "tax_exemptions": 100.0
    }]

VALIDATION:
  Records go through payroll.NewEmployee and its setters, so unknown pay
  bases and negative values are rejected at parse time with the employee
  id attached.
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type employeeJSON struct {
	EmployeeID       string          `json:"employee_id"`
	Name             string          `json:"name"`
	BaseSalaryType   string          `json:"base_salary_type"`
	BaseSalaryValue  float64         `json:"base_salary_value"`
	Bonuses          []entryJSON     `json:"bonuses,omitempty"`
	CustomDeductions []deductionItem `json:"custom_deductions,omitempty"`
	HoursWorked      *float64        `json:"hours_worked"`
	DaysWorked       *float64        `json:"days_worked"`
	TaxExemptions    float64         `json:"tax_exemptions"`
}

type entryJSON struct {
	Name  string  `json:"name,omitempty"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

type deductionItem struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// =============================================================================
// DECODING
// =============================================================================

// ParseEmployees decodes an employees JSON array into validated records,
// preserving file order (which becomes registry insertion order).
func ParseEmployees(data []byte) ([]*payroll.Employee, error) {
	var raw []employeeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding employees: %w", err)
	}

	employees := make([]*payroll.Employee, 0, len(raw))
	for _, r := range raw {
		emp, err := employeeFromJSON(r)
		if err != nil {
			return nil, fmt.Errorf("employee %q: %w", r.EmployeeID, err)
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func employeeFromJSON(r employeeJSON) (*payroll.Employee, error) {
	emp, err := payroll.NewEmployee(r.EmployeeID, r.Name,
		payroll.PayBasisType(r.BaseSalaryType), decimal.NewFromFloat(r.BaseSalaryValue))
	if err != nil {
		return nil, err
	}

	if r.HoursWorked != nil {
		if err := emp.SetHoursWorked(decimal.NewFromFloat(*r.HoursWorked)); err != nil {
			return nil, err
		}
	}
	if r.DaysWorked != nil {
		if err := emp.SetDaysWorked(decimal.NewFromFloat(*r.DaysWorked)); err != nil {
			return nil, err
		}
	}
	if err := emp.SetTaxExemptions(decimal.NewFromFloat(r.TaxExemptions)); err != nil {
		return nil, err
	}

	for _, b := range r.Bonuses {
		kind := payroll.BonusKind(b.Type)
		if kind != payroll.BonusAmount && kind != payroll.BonusPercentage {
			return nil, fmt.Errorf("%w: bonus type %q", payroll.ErrUnknownEntryKind, b.Type)
		}
		emp.Bonuses = append(emp.Bonuses, payroll.Bonus{
			Name:  b.Name,
			Kind:  kind,
			Value: decimal.NewFromFloat(b.Value),
		})
	}

	for _, d := range r.CustomDeductions {
		kind := payroll.DeductionKind(d.Type)
		if kind != payroll.DeductionFixed && kind != payroll.DeductionPercentage {
			return nil, fmt.Errorf("%w: deduction type %q", payroll.ErrUnknownEntryKind, d.Type)
		}
		emp.CustomDeductions = append(emp.CustomDeductions, payroll.CustomDeduction{
			Name:  d.Name,
			Kind:  kind,
			Value: decimal.NewFromFloat(d.Value),
		})
	}

	return emp, nil
}

// =============================================================================
// ENCODING
// =============================================================================

// EncodeEmployees renders records back to the on-disk JSON array, in the
// given order.
func EncodeEmployees(employees []*payroll.Employee) ([]byte, error) {
	out := make([]employeeJSON, 0, len(employees))
	for _, emp := range employees {
		out = append(out, employeeToJSON(emp))
	}
	return json.MarshalIndent(out, "", "  ")
}

func employeeToJSON(emp *payroll.Employee) employeeJSON {
	r := employeeJSON{
		EmployeeID:      emp.ID,
		Name:            emp.Name,
		BaseSalaryType:  string(emp.Basis),
		BaseSalaryValue: toFloat(emp.BasisValue),
		TaxExemptions:   toFloat(emp.TaxExemptions),
	}
	if emp.HoursWorked != nil {
		f := toFloat(*emp.HoursWorked)
		r.HoursWorked = &f
	}
	if emp.DaysWorked != nil {
		f := toFloat(*emp.DaysWorked)
		r.DaysWorked = &f
	}
	for _, b := range emp.Bonuses {
		r.Bonuses = append(r.Bonuses, entryJSON{Name: b.Name, Type: string(b.Kind), Value: toFloat(b.Value)})
	}
	for _, d := range emp.CustomDeductions {
		r.CustomDeductions = append(r.CustomDeductions, deductionItem{Name: d.Name, Type: string(d.Kind), Value: toFloat(d.Value)})
	}
	return r
}
