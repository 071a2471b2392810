package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/doorlog/doorlog/internal/cli"
)

// runExport executes the export subcommand against the memory backend and
// returns captured stdout.
func runExport(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("DOORLOG_STORE", "memory")

	var out bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"export"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestExport_FormatIsCaseInsensitive(t *testing.T) {
	out, err := runExport(t, "--month", "2026-01", "--format", "CSV")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out, "ts,event_type,badge_id,status,raw_message") {
		t.Errorf("expected CSV header, got %q", out)
	}
}

func TestExport_UnknownFormatRejected(t *testing.T) {
	_, err := runExport(t, "--month", "2026-01", "--format", "xml")
	if err == nil {
		t.Fatal("expected an error for format xml")
	}
	if !strings.Contains(err.Error(), "format must be csv or json") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestExport_JSONDefaultEmptyMonth(t *testing.T) {
	out, err := runExport(t, "--month", "2024-01")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected empty JSON array, got %q", out)
	}
}
