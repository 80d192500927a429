package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/timelog/internal/store"
	"github.com/sadopc/timelog/internal/timelog"
)

func sampleData() []store.Activity {
	now := time.Now().UTC()
	end := now

	return []store.Activity{
		{
			ID:           "a1",
			EmployeeID:   "12345",
			EmployeeName: "Bula Bula",
			ProjectCode:  "001",
			ProjectName:  "Projet A",
			Discipline:   "DEVELOPMENT",
			StartTime:    now.Add(-1 * time.Hour),
			EndTime:      &end,
			Hours:        1,
			Wage:         20,
		},
		{
			ID:           "a2",
			EmployeeID:   "777",
			EmployeeName: "Ana",
			ProjectCode:  "002",
			ProjectName:  "Projet B",
			Discipline:   "TEST",
			StartTime:    now.Add(-30 * time.Minute),
			EndTime:      &end,
			Hours:        0.5,
			Wage:         12.5,
		},
		{
			ID:           "a3",
			EmployeeID:   "12345",
			EmployeeName: "Bula Bula",
			ProjectCode:  "001",
			ProjectName:  "Projet A",
			Discipline:   "DESIGN",
			StartTime:    now.Add(-10 * time.Minute),
			EndTime:      nil, // still running
		},
	}
}

func sampleRecord(name string) timelog.ActivityRecord {
	clock := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := timelog.NewEmployee(name, "12345", "balthajonel", 20, 30)
	p := timelog.NewProject("Projet A", "001")
	a, _ := e.BeginActivity(p, timelog.Development, clock)
	a.End = clock.Add(5 * time.Second)
	return a.Record()
}

// ============================================================
// Record file
// ============================================================

func TestRecordFilePath(t *testing.T) {
	r := RecordFile{Dir: "/tmp/records"}
	if got := r.Path("Bula Bula"); got != filepath.Join("/tmp/records", "Bula Bula_activite.json") {
		t.Fatalf("Path = %q", got)
	}
	if got := r.Path("a/b"); filepath.Base(got) != "a_b_activite.json" {
		t.Fatalf("separators should be replaced, got %q", got)
	}
}

func TestRecordFileWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "records")
	r := RecordFile{Dir: dir}
	rec := sampleRecord("Bula Bula")

	if err := r.Record(rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Bula Bula_activite.json"))
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, k := range []string{"id", "employee", "project", "discipline", "start", "end", "total_hours", "wage"} {
		if _, ok := raw[k]; !ok {
			t.Fatalf("record is missing %q", k)
		}
	}
	emp := raw["employee"].(map[string]any)
	if _, ok := emp["current_activity"]; ok {
		t.Fatal("employee snapshot must not carry the running activity")
	}
	if raw["discipline"] != "DEVELOPMENT" {
		t.Fatalf("discipline = %v", raw["discipline"])
	}

	got, err := r.ReadRecord("Bula Bula")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != rec.ID || got.Employee.ID != "12345" || got.Project.Code != "001" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestRecordFileLastWriteWins(t *testing.T) {
	r := RecordFile{Dir: t.TempDir()}
	first := sampleRecord("Bula Bula")
	second := sampleRecord("Bula Bula")

	if err := r.Record(first); err != nil {
		t.Fatal(err)
	}
	if err := r.Record(second); err != nil {
		t.Fatal(err)
	}

	got, err := r.ReadRecord("Bula Bula")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != second.ID {
		t.Fatalf("expected the second record to replace the first, got %s", got.ID)
	}
	entries, _ := os.ReadDir(r.Dir)
	if len(entries) != 1 {
		t.Fatalf("expected one file per employee, got %d", len(entries))
	}
}

func TestRecordFileBadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	os.WriteFile(file, []byte("x"), 0o644)

	r := RecordFile{Dir: filepath.Join(file, "records")}
	if err := r.Record(sampleRecord("Bula Bula")); err == nil {
		t.Fatal("expected error when the record dir cannot be created")
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	err := ToCSV(sampleData(), path)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"ID", "Employee", "Project", "Discipline", "Start", "End", "Hours", "Duration", "Wage"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[0] != "a1" || row[1] != "Bula Bula" || row[2] != "Projet A" || row[3] != "DEVELOPMENT" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[6] != "1.000000" {
		t.Fatalf("Hours = %q, want 1.000000", row[6])
	}
	if row[7] != "01:00:00" {
		t.Fatalf("Duration = %q, want 01:00:00", row[7])
	}
	if row[8] != "20.00" {
		t.Fatalf("Wage = %q, want 20.00", row[8])
	}

	if records[3][5] != "" {
		t.Fatalf("running activity should have empty end time, got %q", records[3][5])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	now := time.Now()
	activities := []store.Activity{
		{ID: "x", EmployeeName: `Jean "JJ", Jr`, ProjectName: `Projet "Spécial"`, StartTime: now, EndTime: &now},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(activities, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `Jean "JJ", Jr` {
		t.Fatalf("employee name mangled: %q", records[1][1])
	}
	if records[1][2] != `Projet "Spécial"` {
		t.Fatalf("project name mangled: %q", records[1][2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 || len(result.Entries) != 3 {
		t.Fatalf("count = %d entries = %d, want 3", result.Count, len(result.Entries))
	}
	if result.TotalHours != 1.5 || result.TotalWage != 32.5 {
		t.Fatalf("totals = %v h / %v, want 1.5 h / 32.5", result.TotalHours, result.TotalWage)
	}

	e := result.Entries[0]
	if e.ID != "a1" || e.Employee != "Bula Bula" || e.ProjectCode != "001" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Duration != "01:00:00" {
		t.Fatalf("Duration = %q, want 01:00:00", e.Duration)
	}

	if result.Entries[2].EndTime != "" {
		t.Fatalf("running entry end_time should be empty, got %q", result.Entries[2].EndTime)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Entries != nil {
		t.Fatal("entries should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

// ============================================================
// formatHours (internal helper)
// ============================================================

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "00:00:00"},
		{1.0 / 3600, "00:00:01"},
		{5000.0 / 3_600_000, "00:00:05"},
		{1.0 / 60, "00:01:00"},
		{1, "01:00:00"},
		{1.5, "01:30:00"},
		{24, "24:00:00"},
		{25 + 1.0/60 + 1.0/3600, "25:01:01"},
	}

	for _, tt := range tests {
		if got := formatHours(tt.hours); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}
