/*
Package registry owns the employee records the engine calculates over.

PURPOSE:
  A Registry is an insertion-ordered, id-keyed collection of employees.
  Insertion order matters: batch payroll output and logs are deterministic
  only because employees are processed in the order they were registered.

SEMANTICS:
  - Put upserts: a new id appends, an existing id keeps its position
  - Delete removes the record and its position
  - List returns records in insertion order (callers get copies, edits
    must round-trip through Put)

CONCURRENCY:
  Guarded by an RWMutex so an HTTP wrapper can serve concurrent reads.
  The engine itself never mutates the registry.

PERSISTENCE:
  The Store interface decouples the registry from disk. store/sqlite is
  the durable implementation; tests use the registry bare.
*/
package registry

import (
	"context"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// Store persists employee records. Implementations must preserve the
// registry's insertion order across a save/load cycle.
type Store interface {
	SaveEmployee(ctx context.Context, emp *payroll.Employee) error
	DeleteEmployee(ctx context.Context, id string) error
	ListEmployees(ctx context.Context) ([]*payroll.Employee, error)
}

// Registry is an insertion-ordered employee collection keyed by id.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*payroll.Employee
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[string]*payroll.Employee)}
}

// Load replaces the registry contents with records in the given order.
func Load(employees []*payroll.Employee) *Registry {
	r := New()
	for _, emp := range employees {
		r.Put(emp)
	}
	return r
}

// Put upserts an employee. A new id goes to the end; an existing id keeps
// its position, so edits never reshuffle batch output.
func (r *Registry) Put(emp *payroll.Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[emp.ID]; !ok {
		r.order = append(r.order, emp.ID)
	}
	r.byID[emp.ID] = emp.Clone()
}

// Get returns a copy of the employee with the given id.
func (r *Registry) Get(id string) (*payroll.Employee, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	emp, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return emp.Clone(), true
}

// Delete removes an employee. Returns false when the id is unknown.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns copies of all employees in insertion order.
func (r *Registry) List() []*payroll.Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*payroll.Employee, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out
}

// Len returns the number of registered employees.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
