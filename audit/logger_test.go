package audit_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/warp/payroll-engine/audit"
)

func TestLogger_HeaderAndAppendOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")

	logger, err := audit.New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Logf("employee %s saved", "EMP001")
	logger.Logf("payroll run: %d results, %d failures", 3, 1)

	content, err := logger.Content()
	if err != nil {
		t.Fatalf("Content failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 entries", len(lines))
	}
	if !strings.HasPrefix(lines[0], "--- Payroll activity journal") {
		t.Errorf("missing header, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "EMP001 saved") {
		t.Errorf("first entry out of order: %q", lines[1])
	}
	if !strings.Contains(lines[2], "3 results, 1 failures") {
		t.Errorf("second entry out of order: %q", lines[2])
	}
}

func TestLogger_ReopenKeepsExistingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")

	first, err := audit.New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	first.Logf("entry one")

	second, err := audit.New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	second.Logf("entry two")

	content, err := second.Content()
	if err != nil {
		t.Fatalf("Content failed: %v", err)
	}
	if !strings.Contains(content, "entry one") || !strings.Contains(content, "entry two") {
		t.Errorf("journal lost entries across reopen:\n%s", content)
	}
	if strings.Count(content, "--- Payroll activity journal") != 1 {
		t.Errorf("header duplicated on reopen:\n%s", content)
	}
}
