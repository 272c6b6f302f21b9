package registry_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/registry"
)

func newEmp(t *testing.T, id string, salary int64) *payroll.Employee {
	t.Helper()
	emp, err := payroll.NewEmployee(id, "Emp "+id, payroll.BasisMonthly, decimal.NewFromInt(salary))
	if err != nil {
		t.Fatalf("NewEmployee failed: %v", err)
	}
	return emp
}

func ids(employees []*payroll.Employee) []string {
	out := make([]string, len(employees))
	for i, e := range employees {
		out[i] = e.ID
	}
	return out
}

func TestRegistry_ListPreservesInsertionOrder(t *testing.T) {
	r := registry.New()
	r.Put(newEmp(t, "c", 1))
	r.Put(newEmp(t, "a", 2))
	r.Put(newEmp(t, "b", 3))

	got := ids(r.List())
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRegistry_UpsertKeepsPosition(t *testing.T) {
	r := registry.New()
	r.Put(newEmp(t, "a", 1))
	r.Put(newEmp(t, "b", 2))

	// Re-put "a" with a new salary; it must stay first.
	updated := newEmp(t, "a", 999)
	r.Put(updated)

	list := r.List()
	if list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("order after upsert = %v, want [a b]", ids(list))
	}
	if !list[0].BasisValue.Equal(decimal.NewFromInt(999)) {
		t.Errorf("upsert did not replace the record")
	}
}

func TestRegistry_DeleteRemovesRecordAndPosition(t *testing.T) {
	r := registry.New()
	r.Put(newEmp(t, "a", 1))
	r.Put(newEmp(t, "b", 2))
	r.Put(newEmp(t, "c", 3))

	if !r.Delete("b") {
		t.Fatal("Delete(b) returned false")
	}
	if r.Delete("b") {
		t.Fatal("second Delete(b) returned true")
	}
	if _, ok := r.Get("b"); ok {
		t.Fatal("deleted employee still retrievable")
	}

	got := ids(r.List())
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("order after delete = %v, want [a c]", got)
	}
}

func TestRegistry_GetReturnsACopy(t *testing.T) {
	r := registry.New()
	r.Put(newEmp(t, "a", 100))

	emp, ok := r.Get("a")
	if !ok {
		t.Fatal("Get(a) missed")
	}
	emp.Name = "mutated"
	emp.Bonuses = append(emp.Bonuses, payroll.Bonus{Kind: payroll.BonusAmount, Value: decimal.NewFromInt(1)})

	fresh, _ := r.Get("a")
	if fresh.Name == "mutated" || len(fresh.Bonuses) != 0 {
		t.Error("mutating a Get copy leaked into the registry")
	}
}

func TestLoad_SeedsInOrder(t *testing.T) {
	r := registry.Load([]*payroll.Employee{newEmp(t, "x", 1), newEmp(t, "y", 2)})
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	got := ids(r.List())
	if got[0] != "x" || got[1] != "y" {
		t.Fatalf("order = %v, want [x y]", got)
	}
}
