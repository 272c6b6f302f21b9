/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees               List all employees
    POST   /api/employees               Create or replace employee
    GET    /api/employees/{id}          Get employee details
    PUT    /api/employees/{id}          Replace employee
    DELETE /api/employees/{id}          Remove employee
    GET    /api/employees/{id}/payroll  Compute payroll for one employee

  Payroll:
    POST   /api/payroll/run             Run payroll for all employees

  Rules:
    GET    /api/rules                   Current rule configuration
    PUT    /api/rules                   Replace rule configuration

  Reports:
    GET    /api/reports/summary         Aggregate totals over a full run

  Activity:
    GET    /api/activity                Activity journal (plain text)

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Registry: In-memory employee roster (ordered)
  - Store: SQLite persistence (employees + rule history)
  - Audit: Append-only activity journal
  - Calculator: Current rule snapshot, swapped atomically on rule change

RULE UPDATES:
  PUT /api/rules round-trips the payload through the YAML codec before
  accepting it, so the same validation applies whether rules arrive over
  the wire or from a config file. Accepted rules are appended to the
  SQLite history, written back to the rules file, and swapped into the
  calculator. In-flight calculations keep the snapshot they started with.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - payroll/calculator.go: The engine behind these endpoints
*/
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/audit"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/registry"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry *registry.Registry
	Store    *sqlite.Store
	Audit    *audit.Logger

	// RulesPath, when set, is the YAML file updated on rule changes so
	// the on-disk config stays in sync with the accepted snapshot.
	RulesPath string

	mu   sync.RWMutex
	calc *payroll.Calculator
}

// NewHandler creates a handler around an initial rule snapshot.
func NewHandler(reg *registry.Registry, store *sqlite.Store, aud *audit.Logger, rules payroll.RuleConfig) *Handler {
	return &Handler{
		Registry: reg,
		Store:    store,
		Audit:    aud,
		calc:     payroll.NewCalculator(rules),
	}
}

// calculator returns the current rule snapshot's calculator.
func (h *Handler) calculator() *payroll.Calculator {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.calc
}

func (h *Handler) logf(format string, args ...interface{}) {
	if h.Audit != nil {
		h.Audit.Logf(format, args...)
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees in registration order.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees := h.Registry.List()
	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = employeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, ok := h.Registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, employeeDTO(emp))
}

// CreateEmployee creates or replaces an employee record.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.saveEmployee(w, r, req)
}

// UpdateEmployee replaces the employee at {id}. The path wins over any
// employee_id carried in the body.
// PUT /api/employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")
	h.saveEmployee(w, r, req)
}

func (h *Handler) saveEmployee(w http.ResponseWriter, r *http.Request, req SaveEmployeeRequest) {
	emp, err := employeeFromDTO(req)
	if err != nil {
		writeError(w, statusFor(err), "Invalid employee record", err)
		return
	}

	h.Registry.Put(emp)
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist employee", err)
		return
	}

	h.logf("Saved employee %s (%s)", emp.ID, emp.Name)
	writeJSON(w, http.StatusCreated, employeeDTO(emp))
}

// DeleteEmployee removes an employee from the roster and the store.
// DELETE /api/employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !h.Registry.Delete(id) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil && !payroll.IsNotFound(err) {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}

	h.logf("Deleted employee %s", id)
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "employee_id": id})
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// GetEmployeePayroll computes payroll for one employee under the current
// rule snapshot.
// GET /api/employees/{id}/payroll
func (h *Handler) GetEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, ok := h.Registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	result, err := h.calculator().Calculate(emp)
	if err != nil {
		writeError(w, statusFor(err), "Payroll calculation failed", err)
		return
	}

	h.logf("Calculated payroll for employee %s", id)
	writeJSON(w, http.StatusOK, resultDTO(id, result))
}

// RunPayroll runs payroll for every registered employee. Individual
// failures are reported alongside the successes, never as a batch error.
// POST /api/payroll/run
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	employees := h.Registry.List()
	batch := h.calculator().CalculateAll(employees)

	dto := BatchResultDTO{
		Results:  make([]ResultDTO, 0, len(batch.Results)),
		Failures: make([]FailureDTO, 0, len(batch.Failures)),
	}
	for _, entry := range batch.Results {
		dto.Results = append(dto.Results, resultDTO(entry.EmployeeID, entry.Result))
	}
	for _, failure := range batch.Failures {
		dto.Failures = append(dto.Failures, FailureDTO{EmployeeID: failure.EmployeeID, Error: failure.Err.Error()})
	}

	h.logf("Ran payroll for %d employees (%d succeeded, %d failed)",
		len(employees), len(batch.Results), len(batch.Failures))
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// RULES HANDLERS
// =============================================================================

// GetRules returns the current rule configuration.
// GET /api/rules
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rulesDTO(h.calculator().Rules()))
}

// UpdateRules replaces the rule configuration. The payload is round-tripped
// through the YAML codec so wire updates get the same validation as config
// files, then appended to the rule history and swapped into the calculator.
// PUT /api/rules
func (h *Handler) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var req RulesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	text, err := factory.EncodeRules(rulesFromDTO(req))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rule configuration", err)
		return
	}
	rules, err := factory.ParseRules(text)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rule configuration", err)
		return
	}

	if err := h.Store.SaveRules(r.Context(), string(text)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist rules", err)
		return
	}
	if h.RulesPath != "" {
		if err := factory.SaveRulesFile(h.RulesPath, rules); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to write rules file", err)
			return
		}
	}

	h.mu.Lock()
	h.calc = payroll.NewCalculator(rules)
	h.mu.Unlock()

	h.logf("Updated rule configuration")
	for _, finding := range factory.LintBrackets(rules) {
		h.logf("Rule lint: %s", finding)
	}

	writeJSON(w, http.StatusOK, rulesDTO(rules))
}

// =============================================================================
// REPORT AND ACTIVITY HANDLERS
// =============================================================================

// GetSummaryReport runs payroll over the full roster and returns aggregate
// totals. Failed employees count toward FailedRuns but not the totals.
// GET /api/reports/summary
func (h *Handler) GetSummaryReport(w http.ResponseWriter, r *http.Request) {
	employees := h.Registry.List()
	batch := h.calculator().CalculateAll(employees)

	gross := decimal.Zero
	net := decimal.Zero
	withheld := decimal.Zero
	for _, entry := range batch.Results {
		gross = gross.Add(entry.Result.GrossPay)
		net = net.Add(entry.Result.NetPay)
		withheld = withheld.Add(entry.Result.TotalWithheld())
	}

	writeJSON(w, http.StatusOK, ReportDTO{
		EmployeeCount: len(employees),
		SucceededRuns: len(batch.Results),
		FailedRuns:    len(batch.Failures),
		TotalGrossPay: toFloat(gross),
		TotalNetPay:   toFloat(net),
		TotalWithheld: toFloat(withheld),
	})
}

// GetActivity returns the activity journal as plain text.
// GET /api/activity
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	if h.Audit == nil {
		writeError(w, http.StatusNotFound, "Activity journal not configured", nil)
		return
	}
	content, err := h.Audit.Content()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read activity journal", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

// =============================================================================
// HELPERS
// =============================================================================

func statusFor(err error) int {
	switch {
	case payroll.IsNotFound(err):
		return http.StatusNotFound
	case payroll.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
