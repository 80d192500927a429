package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/timelog/internal/export"
	"github.com/sadopc/timelog/internal/timelog"
)

// resetFlags puts every flag back to its default so values do not leak
// between runs of the shared command tree.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Value.Type() != "stringToInt" {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type result struct {
	out string
	log string
}

func run(t *testing.T, dir string, args ...string) (result, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := Execute(context.Background())
	return result{out: out.String(), log: errOut.String()}, err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := run(t, dir, "employee", "add", "Bula Bula", "--id", "12345", "--login", "balthajonel", "--rate", "20", "--overtime", "30")
	require.NoError(t, err)
	_, err = run(t, dir, "project", "add", "Projet A", "--code", "001")
	require.NoError(t, err)
	return dir
}

func TestEmployeeAddAndList(t *testing.T) {
	dir := setupEnv(t)

	res, err := run(t, dir, "employee", "list")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Bula Bula")
	assert.Contains(t, res.out, "balthajonel")
	assert.Contains(t, res.out, "idle")
}

func TestEmployeeAdd_Duplicate(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "employee", "add", "Other", "--id", "12345", "--login", "other")
	assert.ErrorIs(t, err, timelog.ErrDuplicateEmployee)
}

func TestEmployeeAdd_MissingFlags(t *testing.T) {
	_, err := run(t, t.TempDir(), "employee", "add", "Nobody")
	assert.Error(t, err)
}

func TestProjectAddWithBudgetAndShow(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "project", "add", "Projet B", "--code", "002",
		"--start", "2026-01-05", "--end", "2026-06-30", "--budget", "development=40,test=8")
	require.NoError(t, err)

	res, err := run(t, dir, "project", "show", "002")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Projet B (002)")
	assert.Contains(t, res.out, "2026-01-05")
	assert.Contains(t, res.out, "DEVELOPMENT")
	assert.Contains(t, res.out, "TEST")

	res, err = run(t, dir, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Projet B")
	assert.Contains(t, res.out, "48")
}

func TestProjectAdd_BadInput(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "project", "add", "P", "--code", "003", "--start", "2026-06-01", "--end", "2026-01-01")
	assert.Error(t, err)

	_, err = run(t, dir, "project", "add", "P", "--code", "003", "--start", "tomorrow")
	assert.Error(t, err)
}

func TestParseDate_UTC(t *testing.T) {
	d, err := parseDate("2026-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, time.UTC, d.Location())

	d, err = parseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestProjectShow_NotFound(t *testing.T) {
	_, err := run(t, t.TempDir(), "project", "show", "999")
	assert.ErrorIs(t, err, timelog.ErrUnknownProject)
}

func TestLogin(t *testing.T) {
	dir := setupEnv(t)

	res, err := run(t, dir, "login", "balthajonel", "12345")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Welcome, Bula Bula")
	assert.Contains(t, res.log, "authentication succeeded")

	_, err = run(t, dir, "login", "balthajonel", "00000")
	assert.ErrorIs(t, err, timelog.ErrAuthFailed)
}

func TestStartStatusStop(t *testing.T) {
	dir := setupEnv(t)

	res, err := run(t, dir, "start", "--login", "balthajonel", "--id", "12345", "--project", "001", "--discipline", "design")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Started DESIGN on Projet A")
	assert.Contains(t, res.log, "activity started")

	// a separate process run still sees the running activity
	res, err = run(t, dir, "status")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Bula Bula: DESIGN on Projet A (001)")

	_, err = run(t, dir, "start", "--login", "balthajonel", "--id", "12345", "--project", "001")
	assert.ErrorIs(t, err, timelog.ErrActivityInProgress)

	res, err = run(t, dir, "stop", "--login", "balthajonel", "--id", "12345")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Stopped DESIGN on Projet A")
	assert.Contains(t, res.log, "activity saved")

	rec, err := export.RecordFile{Dir: filepath.Join(dir, "records")}.ReadRecord("Bula Bula")
	require.NoError(t, err)
	assert.Equal(t, timelog.Design, rec.Discipline)
	assert.Equal(t, "12345", rec.Employee.ID)

	res, err = run(t, dir, "history", "--employee", "12345")
	require.NoError(t, err)
	assert.Contains(t, res.out, "DESIGN")
	assert.NotContains(t, res.out, "running")

	res, err = run(t, dir, "status")
	require.NoError(t, err)
	assert.Contains(t, res.out, "No activity in progress.")
}

func TestStart_DefaultDisciplineFromConfig(t *testing.T) {
	dir := setupEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("default_discipline: management\n"), 0o644))

	res, err := run(t, dir, "start", "--login", "balthajonel", "--id", "12345", "--project", "001")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Started MANAGEMENT")
}

func TestStart_BadInput(t *testing.T) {
	dir := setupEnv(t)

	_, err := run(t, dir, "start", "--login", "balthajonel", "--id", "12345", "--project", "001", "--discipline", "sleeping")
	assert.ErrorIs(t, err, timelog.ErrUnknownDiscipline)

	_, err = run(t, dir, "start", "--login", "balthajonel", "--id", "12345", "--project", "999")
	assert.ErrorIs(t, err, timelog.ErrUnknownProject)

	_, err = run(t, dir, "start", "--login", "balthajonel", "--id", "1", "--project", "001")
	assert.ErrorIs(t, err, timelog.ErrAuthFailed)
}

func TestStop_Idle(t *testing.T) {
	dir := setupEnv(t)

	res, err := run(t, dir, "stop", "--login", "balthajonel", "--id", "12345")
	require.NoError(t, err)
	assert.Contains(t, res.out, "No activity in progress for Bula Bula")
	assert.Contains(t, res.log, "no activity in progress")
}

func TestExport(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "start", "--login", "balthajonel", "--id", "12345", "--project", "001")
	require.NoError(t, err)
	_, err = run(t, dir, "stop", "--login", "balthajonel", "--id", "12345")
	require.NoError(t, err)

	path := filepath.Join(dir, "out.json")
	res, err := run(t, dir, "export", "--format", "json", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, res.out, "Exported 1 activities")
	_, err = os.Stat(path)
	assert.NoError(t, err)

	_, err = run(t, dir, "export", "--format", "pdf", "-o", filepath.Join(dir, "out.pdf"))
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	dir := t.TempDir()

	res, err := run(t, dir, "demo", "--wait", "20ms")
	require.NoError(t, err)
	assert.Contains(t, res.out, "Bula Bula worked")
	assert.Contains(t, res.log, "authentication succeeded")
	assert.Contains(t, res.log, "activity saved")

	rec, err := export.RecordFile{Dir: filepath.Join(dir, "records")}.ReadRecord("Bula Bula")
	require.NoError(t, err)
	assert.Equal(t, "001", rec.Project.Code)
	assert.Equal(t, timelog.Development, rec.Discipline)
	assert.Greater(t, rec.TotalHours, 0.0)

	// the demo leaves the database alone
	res, err = run(t, dir, "employee", "list")
	require.NoError(t, err)
	assert.Contains(t, res.out, "No employees found.")
}
