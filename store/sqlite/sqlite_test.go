package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func storeEmp(t *testing.T, id string, salary int64) *payroll.Employee {
	t.Helper()
	emp, err := payroll.NewEmployee(id, "Emp "+id, payroll.BasisMonthly, decimal.NewFromInt(salary))
	require.NoError(t, err)
	return emp
}

func TestSQLite_EmployeeRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	emp, err := payroll.NewEmployee("EMP001", "Jane Doe", payroll.BasisHourly, decimal.NewFromFloat(25.5))
	require.NoError(t, err)
	require.NoError(t, emp.SetHoursWorked(decimal.NewFromInt(160)))
	require.NoError(t, emp.SetTaxExemptions(decimal.NewFromInt(100)))
	emp.Bonuses = []payroll.Bonus{
		{Name: "signing", Kind: payroll.BonusAmount, Value: decimal.NewFromInt(100)},
		{Name: "performance", Kind: payroll.BonusPercentage, Value: decimal.NewFromFloat(0.10)},
	}
	emp.CustomDeductions = []payroll.CustomDeduction{
		{Name: "pension", Kind: payroll.DeductionFixed, Value: decimal.NewFromInt(75)},
	}

	require.NoError(t, store.SaveEmployee(ctx, emp))

	loaded, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, "EMP001", got.ID)
	assert.Equal(t, payroll.BasisHourly, got.Basis)
	assert.True(t, got.BasisValue.Equal(decimal.NewFromFloat(25.5)), "basis value must round-trip exactly")
	require.NotNil(t, got.HoursWorked)
	assert.True(t, got.HoursWorked.Equal(decimal.NewFromInt(160)))
	assert.Nil(t, got.DaysWorked)
	require.Len(t, got.Bonuses, 2)
	assert.Equal(t, payroll.BonusPercentage, got.Bonuses[1].Kind)
	assert.True(t, got.Bonuses[1].Value.Equal(decimal.NewFromFloat(0.10)))
	require.Len(t, got.CustomDeductions, 1)
	assert.Equal(t, "pension", got.CustomDeductions[0].Name)
}

func TestSQLite_PositionSurvivesUpsert(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, storeEmp(t, "a", 1)))
	require.NoError(t, store.SaveEmployee(ctx, storeEmp(t, "b", 2)))
	require.NoError(t, store.SaveEmployee(ctx, storeEmp(t, "c", 3)))

	// Re-save "a" with a new salary; listing order must not change.
	require.NoError(t, store.SaveEmployee(ctx, storeEmp(t, "a", 999)))

	loaded, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "a", loaded[0].ID)
	assert.Equal(t, "b", loaded[1].ID)
	assert.Equal(t, "c", loaded[2].ID)
	assert.True(t, loaded[0].BasisValue.Equal(decimal.NewFromInt(999)))
}

func TestSQLite_DeleteEmployee(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, storeEmp(t, "a", 1)))
	require.NoError(t, store.DeleteEmployee(ctx, "a"))

	err := store.DeleteEmployee(ctx, "a")
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)

	loaded, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSQLite_RulesHistoryIsAppendOnly(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, ok, err := store.LatestRules(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should have no rules")

	require.NoError(t, store.SaveRules(ctx, "version: one"))
	require.NoError(t, store.SaveRules(ctx, "version: two"))

	latest, ok, err := store.LatestRules(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "version: two", latest)

	n, err := store.RulesHistoryCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "older snapshots must remain in history")
}
