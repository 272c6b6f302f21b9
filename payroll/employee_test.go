package payroll_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// GROSS PAY - Pay bases
// =============================================================================

func TestGrossPay_Monthly_IsBaseValue(t *testing.T) {
	emp := monthlyEmployee(t, "emp-1", 4500)

	gross, err := emp.GrossPay()
	if err != nil {
		t.Fatalf("GrossPay failed: %v", err)
	}
	assertDecimal(t, gross, dec(4500), "monthly gross")
}

func TestGrossPay_Hourly_IsRateTimesHours(t *testing.T) {
	emp, err := payroll.NewEmployee("emp-1", "Hourly", payroll.BasisHourly, dec(25))
	if err != nil {
		t.Fatalf("NewEmployee failed: %v", err)
	}
	if err := emp.SetHoursWorked(dec(160)); err != nil {
		t.Fatalf("SetHoursWorked failed: %v", err)
	}

	gross, err := emp.GrossPay()
	if err != nil {
		t.Fatalf("GrossPay failed: %v", err)
	}
	assertDecimal(t, gross, dec(4000), "hourly gross")
}

func TestGrossPay_Daily_IsRateTimesDays(t *testing.T) {
	emp, err := payroll.NewEmployee("emp-1", "Daily", payroll.BasisDaily, dec(200))
	if err != nil {
		t.Fatalf("NewEmployee failed: %v", err)
	}
	if err := emp.SetDaysWorked(dec(20)); err != nil {
		t.Fatalf("SetDaysWorked failed: %v", err)
	}

	gross, err := emp.GrossPay()
	if err != nil {
		t.Fatalf("GrossPay failed: %v", err)
	}
	assertDecimal(t, gross, dec(4000), "daily gross")
}

func TestGrossPay_HourlyWithoutHours_FailsWithMissingInput(t *testing.T) {
	emp, err := payroll.NewEmployee("emp-1", "Hourly", payroll.BasisHourly, dec(25))
	if err != nil {
		t.Fatalf("NewEmployee failed: %v", err)
	}

	_, err = emp.GrossPay()
	if !errors.Is(err, payroll.ErrMissingInput) {
		t.Fatalf("GrossPay error = %v, want ErrMissingInput", err)
	}
}

func TestGrossPay_DailyWithoutDays_FailsWithMissingInput(t *testing.T) {
	emp, err := payroll.NewEmployee("emp-1", "Daily", payroll.BasisDaily, dec(200))
	if err != nil {
		t.Fatalf("NewEmployee failed: %v", err)
	}

	_, err = emp.GrossPay()
	var missing *payroll.MissingInputError
	if !errors.As(err, &missing) || missing.Field != "days_worked" {
		t.Fatalf("GrossPay error = %v, want days_worked MissingInputError", err)
	}
}

// =============================================================================
// GROSS PAY - Bonus compounding
// =============================================================================

func TestGrossPay_PercentageBonus_CompoundsOnPriorBonuses(t *testing.T) {
	// GIVEN: Base 1000, bonuses [amount 100, percentage 10%]
	// WHEN: Deriving gross pay
	// THEN: 1000 -> 1100 after the amount bonus, then +10% of 1100 = 1210.
	//       The percentage applies to the post-bonus running total, not
	//       the original base.

	emp := monthlyEmployee(t, "emp-1", 1000)
	emp.Bonuses = []payroll.Bonus{
		{Name: "signing", Kind: payroll.BonusAmount, Value: dec(100)},
		{Name: "performance", Kind: payroll.BonusPercentage, Value: dec(0.10)},
	}

	gross, err := emp.GrossPay()
	if err != nil {
		t.Fatalf("GrossPay failed: %v", err)
	}
	assertDecimal(t, gross, dec(1210), "compounded gross")
}

func TestGrossPay_BonusOrder_ChangesTheResult(t *testing.T) {
	// GIVEN: The same two bonuses in the opposite order
	// WHEN: Deriving gross pay
	// THEN: 1000 -> 1100 after 10%, then +100 = 1200 (not 1210)

	emp := monthlyEmployee(t, "emp-1", 1000)
	emp.Bonuses = []payroll.Bonus{
		{Name: "performance", Kind: payroll.BonusPercentage, Value: dec(0.10)},
		{Name: "signing", Kind: payroll.BonusAmount, Value: dec(100)},
	}

	gross, err := emp.GrossPay()
	if err != nil {
		t.Fatalf("GrossPay failed: %v", err)
	}
	assertDecimal(t, gross, dec(1200), "order-sensitive gross")
}

// =============================================================================
// CONSTRUCTION BOUNDARY
// =============================================================================

func TestNewEmployee_UnknownBasis_Rejected(t *testing.T) {
	_, err := payroll.NewEmployee("emp-1", "Weekly?", payroll.PayBasisType("weekly"), dec(1000))
	if !errors.Is(err, payroll.ErrInvalidPayBasis) {
		t.Fatalf("NewEmployee error = %v, want ErrInvalidPayBasis", err)
	}
}

func TestNewEmployee_NegativeBase_Rejected(t *testing.T) {
	_, err := payroll.NewEmployee("emp-1", "Negative", payroll.BasisMonthly, dec(-1))
	if !errors.Is(err, payroll.ErrNegativeValue) {
		t.Fatalf("NewEmployee error = %v, want ErrNegativeValue", err)
	}
}

func TestEmployeeSetters_RejectNegativeValues(t *testing.T) {
	emp := monthlyEmployee(t, "emp-1", 1000)

	if err := emp.SetHoursWorked(dec(-1)); !errors.Is(err, payroll.ErrNegativeValue) {
		t.Errorf("SetHoursWorked(-1) error = %v, want ErrNegativeValue", err)
	}
	if err := emp.SetDaysWorked(dec(-1)); !errors.Is(err, payroll.ErrNegativeValue) {
		t.Errorf("SetDaysWorked(-1) error = %v, want ErrNegativeValue", err)
	}
	if err := emp.SetTaxExemptions(dec(-1)); !errors.Is(err, payroll.ErrNegativeValue) {
		t.Errorf("SetTaxExemptions(-1) error = %v, want ErrNegativeValue", err)
	}
}

func TestClone_IsolatesEditsFromTheOriginal(t *testing.T) {
	emp := monthlyEmployee(t, "emp-1", 1000)
	emp.Bonuses = []payroll.Bonus{{Name: "signing", Kind: payroll.BonusAmount, Value: dec(100)}}
	if err := emp.SetHoursWorked(dec(160)); err != nil {
		t.Fatalf("SetHoursWorked failed: %v", err)
	}

	clone := emp.Clone()
	clone.Bonuses[0].Value = dec(999)
	if err := clone.SetHoursWorked(dec(1)); err != nil {
		t.Fatalf("SetHoursWorked on clone failed: %v", err)
	}

	if !emp.Bonuses[0].Value.Equal(dec(100)) {
		t.Error("editing clone bonuses mutated the original")
	}
	if !emp.HoursWorked.Equal(decimal.NewFromInt(160)) {
		t.Error("editing clone hours mutated the original")
	}
}
