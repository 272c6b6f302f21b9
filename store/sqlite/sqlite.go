/*
Package sqlite provides the SQLite-backed implementation of persistence.

PURPOSE:
  Durable storage for the employee registry and the rule-config history.
  A desktop-class tool wants a single file it can back up; SQLite gives us
  that plus real transactions for the multi-row writes.

INTERFACES IMPLEMENTED:
  registry.Store: Employee persistence

KEY TABLES:
  employees:     One row per employee. The position column preserves
                 registry insertion order across restarts; an upsert keeps
                 the existing position.
  rule_configs:  Append-only history of rule snapshots (raw YAML). Config
                 edits insert a new row; the latest row wins. Nothing ever
                 UPDATEs or DELETEs here, so past payroll runs stay
                 explainable.

NUMBER STORAGE:
  Money fields are stored as decimal strings, never as REAL, so values
  round-trip exactly.

USAGE:
  store, err := sqlite.New("./payroll.db")
  if err != nil { ... }
  defer store.Close()

  employees, err := store.ListEmployees(ctx)
  reg := registry.Load(employees)

SEE ALSO:
  - registry/registry.go: The Store interface and in-memory registry
  - factory/config.go: Produces/consumes the YAML stored in rule_configs
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/registry"
)

// Store implements registry.Store and rule-config history using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time check that Store satisfies registry.Store.
var _ registry.Store = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database (tests).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		basis_type TEXT NOT NULL,
		basis_value TEXT NOT NULL,
		hours_worked TEXT,
		days_worked TEXT,
		tax_exemptions TEXT NOT NULL,
		bonuses_json TEXT NOT NULL DEFAULT '[]',
		deductions_json TEXT NOT NULL DEFAULT '[]',
		position INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_employees_position ON employees(position);

	-- Append-only rule-config history; latest row is the active snapshot.
	CREATE TABLE IF NOT EXISTS rule_configs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		yaml TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE SERIALIZATION
// =============================================================================

type entryRow struct {
	Name  string `json:"name,omitempty"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

func encodeBonuses(bonuses []payroll.Bonus) (string, error) {
	rows := make([]entryRow, len(bonuses))
	for i, b := range bonuses {
		rows[i] = entryRow{Name: b.Name, Type: string(b.Kind), Value: b.Value.String()}
	}
	data, err := json.Marshal(rows)
	return string(data), err
}

func decodeBonuses(raw string) ([]payroll.Bonus, error) {
	var rows []entryRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]payroll.Bonus, len(rows))
	for i, r := range rows {
		value, err := decimal.NewFromString(r.Value)
		if err != nil {
			return nil, err
		}
		out[i] = payroll.Bonus{Name: r.Name, Kind: payroll.BonusKind(r.Type), Value: value}
	}
	return out, nil
}

func encodeDeductions(deds []payroll.CustomDeduction) (string, error) {
	rows := make([]entryRow, len(deds))
	for i, d := range deds {
		rows[i] = entryRow{Name: d.Name, Type: string(d.Kind), Value: d.Value.String()}
	}
	data, err := json.Marshal(rows)
	return string(data), err
}

func decodeDeductions(raw string) ([]payroll.CustomDeduction, error) {
	var rows []entryRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]payroll.CustomDeduction, len(rows))
	for i, r := range rows {
		value, err := decimal.NewFromString(r.Value)
		if err != nil {
			return nil, err
		}
		out[i] = payroll.CustomDeduction{Name: r.Name, Kind: payroll.DeductionKind(r.Type), Value: value}
	}
	return out, nil
}

func optString(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func optDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// =============================================================================
// registry.Store IMPLEMENTATION
// =============================================================================

// SaveEmployee upserts an employee row. A new id takes the next position;
// an existing id keeps its position so registry order survives restarts.
func (s *Store) SaveEmployee(ctx context.Context, emp *payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bonuses, err := encodeBonuses(emp.Bonuses)
	if err != nil {
		return fmt.Errorf("encoding bonuses: %w", err)
	}
	deductions, err := encodeDeductions(emp.CustomDeductions)
	if err != nil {
		return fmt.Errorf("encoding deductions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO employees
			(id, name, basis_type, basis_value, hours_worked, days_worked,
			 tax_exemptions, bonuses_json, deductions_json, position, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM employees), ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			basis_type = excluded.basis_type,
			basis_value = excluded.basis_value,
			hours_worked = excluded.hours_worked,
			days_worked = excluded.days_worked,
			tax_exemptions = excluded.tax_exemptions,
			bonuses_json = excluded.bonuses_json,
			deductions_json = excluded.deductions_json,
			updated_at = excluded.updated_at`,
		emp.ID, emp.Name, string(emp.Basis), emp.BasisValue.String(),
		optString(emp.HoursWorked), optString(emp.DaysWorked),
		emp.TaxExemptions.String(), bonuses, deductions,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving employee %s: %w", emp.ID, err)
	}
	return nil
}

// DeleteEmployee removes an employee row.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting employee %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return payroll.ErrEmployeeNotFound
	}
	return nil
}

// ListEmployees returns all employees ordered by position (registry
// insertion order).
func (s *Store) ListEmployees(ctx context.Context) ([]*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, basis_type, basis_value, hours_worked, days_worked,
		       tax_exemptions, bonuses_json, deductions_json
		FROM employees ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var out []*payroll.Employee
	for rows.Next() {
		var (
			id, name, basisType, basisValue, taxExemptions string
			hours, days                                    sql.NullString
			bonusesRaw, deductionsRaw                      string
		)
		if err := rows.Scan(&id, &name, &basisType, &basisValue, &hours, &days,
			&taxExemptions, &bonusesRaw, &deductionsRaw); err != nil {
			return nil, err
		}

		emp, err := scanEmployee(id, name, basisType, basisValue, taxExemptions,
			hours, days, bonusesRaw, deductionsRaw)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", id, err)
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func scanEmployee(id, name, basisType, basisValue, taxExemptions string,
	hours, days sql.NullString, bonusesRaw, deductionsRaw string) (*payroll.Employee, error) {

	base, err := decimal.NewFromString(basisValue)
	if err != nil {
		return nil, err
	}
	emp, err := payroll.NewEmployee(id, name, payroll.PayBasisType(basisType), base)
	if err != nil {
		return nil, err
	}

	if h, err := optDecimal(hours); err != nil {
		return nil, err
	} else if h != nil {
		if err := emp.SetHoursWorked(*h); err != nil {
			return nil, err
		}
	}
	if d, err := optDecimal(days); err != nil {
		return nil, err
	} else if d != nil {
		if err := emp.SetDaysWorked(*d); err != nil {
			return nil, err
		}
	}

	exemptions, err := decimal.NewFromString(taxExemptions)
	if err != nil {
		return nil, err
	}
	if err := emp.SetTaxExemptions(exemptions); err != nil {
		return nil, err
	}

	if emp.Bonuses, err = decodeBonuses(bonusesRaw); err != nil {
		return nil, err
	}
	if emp.CustomDeductions, err = decodeDeductions(deductionsRaw); err != nil {
		return nil, err
	}
	return emp, nil
}

// =============================================================================
// RULE CONFIG HISTORY
// =============================================================================

// SaveRules appends a rule-config snapshot (raw YAML) to the history.
func (s *Store) SaveRules(ctx context.Context, yamlText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rule_configs (yaml, created_at) VALUES (?, ?)`,
		yamlText, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving rule config: %w", err)
	}
	return nil
}

// LatestRules returns the most recent rule-config snapshot, or ok=false
// when none has been saved yet.
func (s *Store) LatestRules(ctx context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var yamlText string
	err := s.db.QueryRowContext(ctx,
		`SELECT yaml FROM rule_configs ORDER BY id DESC LIMIT 1`).Scan(&yamlText)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading rule config: %w", err)
	}
	return yamlText, true, nil
}

// RulesHistoryCount returns how many snapshots the history holds.
func (s *Store) RulesHistoryCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rule_configs`).Scan(&n)
	return n, err
}
