package payroll_test

import (
	"testing"

	"github.com/warp/payroll-engine/payroll"
)

func TestSummary_RendersFixedOrderWithTwoDecimals(t *testing.T) {
	// GIVEN: A 1000 monthly employee under the stock config
	// WHEN: Rendering the summary
	// THEN: Gross, taxes (income tax first), deductions in config order,
	//       net, then employer contributions - all with two decimals

	calc := payroll.NewCalculator(defaultRules())
	result, err := calc.Calculate(monthlyEmployee(t, "emp-1", 1000))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// gross 1000; income tax: 1000*0.10 = 100 (taxable stops at tier 1);
	// employee ss: 80; pension 50; health 50; net = 1000-100-80-50-50 = 720
	want := "Payroll Summary:\n" +
		"  Gross Pay: 1000.00\n" +
		"  Employee Withholdings:\n" +
		"    - income_tax: 100.00\n" +
		"    - employee_social_security: 80.00\n" +
		"    - pension: 50.00\n" +
		"    - health_insurance: 50.00\n" +
		"  Net Pay: 720.00\n" +
		"  Employer Contributions:\n" +
		"    - employer_social_security: 120.00\n"

	if got := result.Summary(); got != want {
		t.Errorf("summary mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSummary_OmitsEmployerSectionWhenEmpty(t *testing.T) {
	result := &payroll.Result{
		Taxes:                 payroll.NewBreakdown(),
		Deductions:            payroll.NewBreakdown(),
		EmployerContributions: payroll.NewBreakdown(),
	}

	want := "Payroll Summary:\n" +
		"  Gross Pay: 0.00\n" +
		"  Employee Withholdings:\n" +
		"  Net Pay: 0.00\n"

	if got := result.Summary(); got != want {
		t.Errorf("summary mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTotalWithheld_SumsTaxesAndDeductions(t *testing.T) {
	calc := payroll.NewCalculator(defaultRules())
	result, err := calc.Calculate(monthlyEmployee(t, "emp-1", 1000))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	assertDecimal(t, result.TotalWithheld(), dec(280), "total withheld")
	assertDecimal(t, result.GrossPay.Sub(result.TotalWithheld()), result.NetPay, "withheld identity")
}
