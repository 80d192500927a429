package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/timelog/internal/config"
	"github.com/sadopc/timelog/internal/store"
	"github.com/sadopc/timelog/internal/timelog"
	"github.com/sadopc/timelog/internal/tracker"
)

func newTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	tr, err := tracker.New(s, tracker.Options{RecordDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

// seed registers Bula Bula and one project.
func seed(t *testing.T, tr *tracker.Tracker) *timelog.Employee {
	t.Helper()
	e := timelog.NewEmployee("Bula Bula", "12345", "balthajonel", 20, 30)
	if err := tr.RegisterEmployee(e); err != nil {
		t.Fatal(err)
	}
	if err := tr.RegisterProject(timelog.NewProject("Projet A", "001", timelog.WithBudget(timelog.Development, 10))); err != nil {
		t.Fatal(err)
	}
	return e
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

// ============================================================
// Timer model
// ============================================================

func TestTimerStartStop(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)

	tm := newTimerModel(tr)
	tm.bind(e.ID)
	if tm.running() {
		t.Fatal("timer should start idle")
	}

	a, err := tm.start("001", timelog.Test)
	if err != nil {
		t.Fatal(err)
	}
	if !tm.running() || tm.activity != a {
		t.Fatal("timer should follow the started activity")
	}
	if a.Discipline != timelog.Test {
		t.Fatalf("discipline = %s", a.Discipline)
	}

	done, err := tm.stop()
	if err != nil {
		t.Fatal(err)
	}
	if done == nil || done.End.IsZero() {
		t.Fatal("stop should return the ended activity")
	}
	if tm.running() {
		t.Fatal("timer should be idle after stop")
	}
	if !e.Idle() {
		t.Fatal("employee slot should be idle")
	}
}

func TestTimerStopWhenIdle(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	tm := newTimerModel(tr)
	tm.bind(e.ID)

	a, err := tm.stop()
	if err != nil || a != nil {
		t.Fatalf("stop on idle timer = %v, %v; want nil, nil", a, err)
	}
}

func TestTimerStartWhileRunning(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	tm := newTimerModel(tr)
	tm.bind(e.ID)

	first, _ := tm.start("001", timelog.Development)
	if _, err := tm.start("001", timelog.Design); !errors.Is(err, timelog.ErrActivityInProgress) {
		t.Fatalf("expected ErrActivityInProgress, got %v", err)
	}
	if tm.activity != first {
		t.Fatal("running activity should be kept")
	}
}

func TestTimerBindPicksUpRunningActivity(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	a, err := tr.Start(e.ID, "001", timelog.Management)
	if err != nil {
		t.Fatal(err)
	}

	tm := newTimerModel(tr)
	tm.bind(e.ID)
	if tm.activity != a {
		t.Fatal("bind should find the activity started elsewhere")
	}

	tm.bind("")
	if tm.running() {
		t.Fatal("unbound timer should be idle")
	}
}

func TestTimerElapsed(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	tm := newTimerModel(tr)
	tm.bind(e.ID)

	if tm.currentElapsed() != 0 {
		t.Fatal("idle timer should have 0 elapsed")
	}

	a, _ := tm.start("001", timelog.Development)
	tm.now = func() time.Time { return a.Start.Add(90 * time.Second) }
	if got := tm.currentElapsed(); got != 90*time.Second {
		t.Fatalf("elapsed = %v, want 90s", got)
	}
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{time.Second, "00:00:01"},
		{time.Minute, "00:01:00"},
		{time.Hour, "01:00:00"},
		{time.Hour + time.Minute + time.Second, "01:01:01"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "00:00:00"},
		{5000.0 / 3_600_000, "00:00:05"},
		{0.5, "00:30:00"},
		{1.5, "01:30:00"},
	}
	for _, tt := range tests {
		got := formatHours(tt.hours)
		if got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestFormatWage(t *testing.T) {
	if got := formatWage(0.0277777); got != "0.03" {
		t.Fatalf("formatWage = %q", got)
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	expected := []string{"Dashboard", "Projects", "Employees", "Reports", "Settings"}
	if len(viewNames) != len(expected) {
		t.Fatalf("expected %d view names, got %d", len(expected), len(viewNames))
	}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewDashboard != 0 || viewProjects != 1 || viewEmployees != 2 || viewReports != 3 || viewSettings != 4 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Dashboard model
// ============================================================

func loadedDashboard(t *testing.T, tr *tracker.Tracker, e *timelog.Employee) dashboardModel {
	t.Helper()
	d := newDashboardModel(tr, timelog.Design)
	d.setSize(100, 40)
	d.setEmployee(e)
	d, _ = d.update(d.loadData()())
	return d
}

func TestDashboardInit(t *testing.T) {
	tr := newTestTracker(t)
	d := newDashboardModel(tr, timelog.Development)

	if d.isRunning() {
		t.Fatal("dashboard timer should not be running initially")
	}
	if d.elapsed() != 0 {
		t.Fatal("dashboard should have 0 elapsed initially")
	}
	if d.picking != pickNone {
		t.Fatal("picker should be closed initially")
	}
}

func TestDashboardStartWithOneProject(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	d := loadedDashboard(t, tr, e)

	// A single project skips straight to the discipline
	d, _ = d.update(runes("s"))
	if d.picking != pickDiscipline {
		t.Fatalf("picking = %d, want discipline stage", d.picking)
	}
	if timelog.Disciplines[d.pickerCursor] != timelog.Design {
		t.Fatal("cursor should start on the default discipline")
	}

	d, _ = d.update(enter)
	if !d.isRunning() {
		t.Fatal("timer should be running")
	}
	if cur := e.Current(); cur == nil || cur.Discipline != timelog.Design {
		t.Fatal("activity should run with the picked discipline")
	}

	d, _ = d.update(runes("x"))
	if d.isRunning() {
		t.Fatal("timer should be stopped")
	}
	if !e.Idle() {
		t.Fatal("employee should be idle")
	}
}

func TestDashboardStopAfterStoppedElsewhere(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	d := loadedDashboard(t, tr, e)

	d, _ = d.update(runes("s"))
	d, _ = d.update(enter)
	if !d.isRunning() {
		t.Fatal("timer should be running")
	}

	// stopped from the command line meanwhile
	if _, err := tr.Stop(e.ID); err != nil {
		t.Fatal(err)
	}

	d, cmd := d.update(runes("x"))
	if d.isRunning() {
		t.Fatal("timer should be idle")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected a batch of commands")
	}
	var status string
	for _, c := range batch {
		switch msg := c().(type) {
		case activityStoppedMsg:
			t.Fatal("nothing was stopped here")
		case statusMsg:
			status = msg.text
		}
	}
	if !strings.Contains(status, "another session") {
		t.Fatalf("status = %q", status)
	}
}

func TestTimerStartPicksUpActivityStartedElsewhere(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	tm := newTimerModel(tr)
	tm.bind(e.ID)

	other, err := tr.Start(e.ID, "001", timelog.Test)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tm.start("001", timelog.Design); !errors.Is(err, timelog.ErrActivityInProgress) {
		t.Fatalf("expected ErrActivityInProgress, got %v", err)
	}
	if tm.activity != other {
		t.Fatal("timer should now follow the running activity")
	}
}

func TestDashboardPickerWithTwoProjects(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	if err := tr.RegisterProject(timelog.NewProject("Projet B", "002")); err != nil {
		t.Fatal(err)
	}
	d := loadedDashboard(t, tr, e)

	d, _ = d.update(runes("s"))
	if d.picking != pickProject {
		t.Fatal("should pick a project first")
	}
	d, _ = d.update(runes("j"))
	d, _ = d.update(enter)
	if d.picking != pickDiscipline || d.picked.Code != "002" {
		t.Fatalf("picked = %v, stage = %d", d.picked, d.picking)
	}

	d, _ = d.update(tea.KeyMsg{Type: tea.KeyEsc})
	if d.picking != pickNone || d.isRunning() {
		t.Fatal("esc should cancel without starting")
	}
}

func TestDashboardStartWithoutProjects(t *testing.T) {
	tr := newTestTracker(t)
	e := timelog.NewEmployee("Solo", "1", "solo", 10, 10)
	tr.RegisterEmployee(e)
	d := loadedDashboard(t, tr, e)

	d, cmd := d.update(runes("s"))
	if d.picking != pickNone {
		t.Fatal("picker should stay closed without projects")
	}
	if cmd == nil {
		t.Fatal("expected a status message")
	}
	if msg, ok := cmd().(statusMsg); !ok || !msg.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

func TestDashboardViewRenders(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	d := loadedDashboard(t, tr, e)

	if !strings.Contains(d.view(), "IDLE") {
		t.Fatal("idle dashboard should say so")
	}
	tr.Start(e.ID, "001", timelog.Development)
	d.setEmployee(e)
	out := d.view()
	if !strings.Contains(out, "RUNNING") || !strings.Contains(out, "Projet A") {
		t.Fatal("running dashboard should show the project")
	}
}

// ============================================================
// Projects model
// ============================================================

func TestProjectsBuildProject(t *testing.T) {
	tr := newTestTracker(t)
	p := newProjectsModel(tr)
	*p.formName = " Projet C "
	*p.formCode = "003"
	*p.formStart = "2026-02-01"
	*p.formEnd = ""
	*p.formBudgets[timelog.Test] = "12"

	proj := p.buildProject()
	if proj.Name != "Projet C" || proj.Code != "003" {
		t.Fatalf("unexpected project %+v", proj)
	}
	if !proj.StartDate.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) || !proj.EndDate.IsZero() {
		t.Fatalf("schedule = %v / %v", proj.StartDate, proj.EndDate)
	}
	if proj.StartDate.Location() != time.UTC {
		t.Fatal("form dates should be UTC like the stored ones")
	}
	if h, ok := proj.BudgetedHours(timelog.Test); !ok || h != 12 {
		t.Fatalf("TEST budget = %d, %v", h, ok)
	}
	if _, ok := proj.BudgetedHours(timelog.Design); ok {
		t.Fatal("empty budget fields should be skipped")
	}
}

func TestProjectsValidators(t *testing.T) {
	if validDate("") != nil || validDate("2026-03-02") != nil {
		t.Fatal("valid dates rejected")
	}
	if validDate("02/03/2026") == nil {
		t.Fatal("bad date accepted")
	}
	if validHours("") != nil || validHours("40") != nil {
		t.Fatal("valid hours rejected")
	}
	if validHours("-1") == nil || validHours("1.5") == nil {
		t.Fatal("bad hours accepted")
	}
	if required("code")("  ") == nil {
		t.Fatal("blank value accepted")
	}
}

func TestProjectsListAndUsage(t *testing.T) {
	tr := newTestTracker(t)
	seed(t, tr)
	p := newProjectsModel(tr)
	p.setSize(120, 40)

	p, _ = p.update(p.refresh()())
	if len(p.projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(p.projects))
	}
	if !strings.Contains(p.view(), "Projet A") {
		t.Fatal("list should show the project")
	}

	p, cmd := p.update(enter)
	if !p.viewingUsage || cmd == nil {
		t.Fatal("enter should open the usage view")
	}
	p, _ = p.update(cmd())
	if len(p.usage) != 1 || p.usage[0].BudgetedHours != 10 {
		t.Fatalf("unexpected usage %+v", p.usage)
	}
	if !strings.Contains(p.view(), "DEVELOPMENT") {
		t.Fatal("usage view should list the discipline")
	}

	p, _ = p.update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.viewingUsage {
		t.Fatal("esc should close the usage view")
	}
}

func TestUsageBar(t *testing.T) {
	half := usageBar(store.BudgetUsage{Discipline: "TEST", BudgetedHours: 10, BookedHours: 5}, 10)
	if strings.Count(half, "█") != 5 {
		t.Fatalf("half used bar = %q", half)
	}
	over := usageBar(store.BudgetUsage{Discipline: "TEST", BudgetedHours: 1, BookedHours: 3}, 10)
	if strings.Count(over, "█") != 10 {
		t.Fatal("overbooked bar should be full")
	}
	none := usageBar(store.BudgetUsage{Discipline: "TEST", BookedHours: 3}, 10)
	if strings.Contains(none, "█") {
		t.Fatal("no budget should draw no fill")
	}
}

func TestScheduleLabel(t *testing.T) {
	if got := scheduleLabel(timelog.NewProject("P", "1")); got != "unscheduled" {
		t.Fatalf("got %q", got)
	}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := scheduleLabel(timelog.NewProject("P", "1", timelog.WithSchedule(start, time.Time{})))
	if got != "2026-01-01 → ?" {
		t.Fatalf("got %q", got)
	}
}

// ============================================================
// Employees and login
// ============================================================

func TestEmployeeForm(t *testing.T) {
	f := newEmployeeForm()
	f.build()
	*f.name, *f.id, *f.login, *f.rate, *f.overtime = "Ana ", "777", "ana", "25.5", "30"

	e := f.employee()
	if e.Name != "Ana" || e.ID != "777" || e.Login != "ana" || e.BaseRate != 25.5 || e.OvertimeRate != 30 {
		t.Fatalf("unexpected employee %+v", e)
	}
	if !e.Idle() {
		t.Fatal("new employee should be idle")
	}

	if validRate("abc") == nil || validRate("-2") == nil {
		t.Fatal("bad rate accepted")
	}
	if validRate("0") != nil {
		t.Fatal("zero rate rejected")
	}
}

func TestEmployeesView(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	tr.Start(e.ID, "001", timelog.Test)

	m := newEmployeesModel(tr)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())

	out := m.view()
	if !strings.Contains(out, "Bula Bula") || !strings.Contains(out, "TEST") {
		t.Fatal("employee list should show the running discipline")
	}

	m, _ = m.update(runes("n"))
	if !m.formActive {
		t.Fatal("n should open the registration form")
	}
}

func TestLoginModelModes(t *testing.T) {
	tr := newTestTracker(t)
	if !newLoginModel(tr).register {
		t.Fatal("an empty roster should ask for the first employee")
	}

	seed(t, tr)
	m := newLoginModel(tr)
	if m.register {
		t.Fatal("with employees the login form should be shown")
	}
	m.setSize(100, 40)
	if !strings.Contains(m.view(), "Log in") {
		t.Fatal("login view should have a title")
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsSave(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	s := newSettingsModel(cfg, dir)
	s.setSize(100, 40)

	s, _ = s.showForm()
	if *s.discipline != "DEVELOPMENT" || *s.logLevel != "info" {
		t.Fatalf("form defaults = %q, %q", *s.discipline, *s.logLevel)
	}
	*s.discipline = "TEST"
	*s.recordDir = "out"
	if err := s.save(); err != nil {
		t.Fatal(err)
	}

	loaded, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Discipline() != timelog.Test || loaded.RecordPath(dir) != filepath.Join(dir, "out") {
		t.Fatalf("saved config = %+v", loaded)
	}

	s.formActive = false
	if !strings.Contains(s.view(), filepath.Join(dir, "out")) {
		t.Fatal("view should show the resolved record directory")
	}
}

// ============================================================
// Reports model
// ============================================================

func TestReportsDateRange(t *testing.T) {
	tr := newTestTracker(t)
	r := newReportsModel(tr)
	r.now = func() time.Time { return time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC) } // a Wednesday

	from, to := r.dateRange()
	if from.Format(dateLayout) != "2026-02-26" || to.Format(dateLayout) != "2026-03-05" {
		t.Fatalf("daily range = %s .. %s", from, to)
	}

	r.mode = reportWeekly
	from, to = r.dateRange()
	if from.Format(dateLayout) != "2026-03-02" || to.Format(dateLayout) != "2026-03-09" {
		t.Fatalf("weekly range = %s .. %s", from, to)
	}

	r.offset = 1
	from, _ = r.dateRange()
	if from.Format(dateLayout) != "2026-02-23" {
		t.Fatalf("previous week starts %s", from)
	}
}

func TestReportsRefreshAndView(t *testing.T) {
	tr := newTestTracker(t)
	e := seed(t, tr)
	tr.Start(e.ID, "001", timelog.Development)
	tr.Stop(e.ID)

	r := newReportsModel(tr)
	r.setSize(120, 40)
	r, _ = r.update(r.refresh()())

	if len(r.summaries) != 1 || r.summaries[0].EmployeeName != "Bula Bula" {
		t.Fatalf("unexpected summaries %+v", r.summaries)
	}
	if _, ok := r.colors[e.ID]; !ok {
		t.Fatal("employee should have a series color")
	}
	out := r.view()
	if !strings.Contains(out, "Bula Bula") || !strings.Contains(out, "Total") {
		t.Fatal("report should list the employee and a total")
	}

	r, _ = r.update(enter)
	if r.mode != reportWeekly {
		t.Fatal("enter should switch to weekly")
	}
}

// ============================================================
// App model
// ============================================================

func newTestApp(t *testing.T) (App, *timelog.Employee) {
	t.Helper()
	tr := newTestTracker(t)
	e := seed(t, tr)
	app := NewApp(tr, Options{DataDir: t.TempDir()})
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App), e
}

func login(t *testing.T, app App, e *timelog.Employee) App {
	t.Helper()
	m, _ := app.Update(loggedInMsg{employee: e})
	return m.(App)
}

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.employee != nil {
		t.Fatal("nobody should be logged in")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("help and export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppLoadingState(t *testing.T) {
	tr := newTestTracker(t)
	app := NewApp(tr, Options{})
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppShowsLoginFirst(t *testing.T) {
	app, _ := newTestApp(t)
	if !strings.Contains(app.View(), "Log in") {
		t.Fatal("logged out app should show the login form")
	}

	// view keys are ignored until login
	m, _ := app.Update(runes("2"))
	if m.(App).activeView != viewDashboard {
		t.Fatal("tab keys should not switch views before login")
	}
}

func TestAppLoginAndLogout(t *testing.T) {
	app, e := newTestApp(t)
	app = login(t, app, e)

	if app.employee != e || app.dashboard.employee != e {
		t.Fatal("login should bind the employee")
	}
	if !strings.Contains(app.renderHeader(), "Bula Bula") {
		t.Fatal("header should name the employee")
	}

	m, _ := app.Update(runes("u"))
	app = m.(App)
	if app.employee != nil || app.dashboard.employee != nil {
		t.Fatal("switch user should log out")
	}
}

func TestAppViewStates(t *testing.T) {
	app, e := newTestApp(t)
	app = login(t, app, e)

	for i := range viewNames {
		app.activeView = viewState(i)
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", i)
		}
	}
}

func TestAppTabSwitching(t *testing.T) {
	app, e := newTestApp(t)
	app = login(t, app, e)

	m, _ := app.Update(runes("3"))
	app = m.(App)
	if app.activeView != viewEmployees {
		t.Fatalf("activeView = %d, want employees", app.activeView)
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.(App).activeView != viewReports {
		t.Fatal("tab should move to the next view")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, e := newTestApp(t)
	app = login(t, app, e)

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppActivityStatus(t *testing.T) {
	app, e := newTestApp(t)
	app = login(t, app, e)

	a, err := app.tracker.Start(e.ID, "001", timelog.Development)
	if err != nil {
		t.Fatal(err)
	}
	m, _ := app.Update(activityStartedMsg{activity: a})
	app = m.(App)
	if app.status != "Started DEVELOPMENT on Projet A" {
		t.Fatalf("status = %q", app.status)
	}

	done, _ := app.tracker.Stop(e.ID)
	m, _ = app.Update(activityStoppedMsg{activity: done, err: errors.New("disk full")})
	app = m.(App)
	if !app.statusErr || !strings.Contains(app.status, "not saved") {
		t.Fatalf("status = %q", app.status)
	}
}

func TestAppExport(t *testing.T) {
	app, e := newTestApp(t)
	app = login(t, app, e)
	app.tracker.Start(e.ID, "001", timelog.Development)
	app.tracker.Stop(e.ID)

	m, _ := app.Update(runes("e"))
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	_, cmd := app.Update(enter)
	if cmd == nil {
		t.Fatal("expected an export command")
	}
	msg, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("export should succeed")
	}
	if msg.count != 1 || filepath.Ext(msg.path) != ".csv" {
		t.Fatalf("unexpected export %+v", msg)
	}
}

func TestAppSettingsSavedUpdatesDashboard(t *testing.T) {
	app, e := newTestApp(t)
	app = login(t, app, e)

	m, _ := app.Update(settingsSavedMsg{discipline: timelog.Management})
	if m.(App).dashboard.discipline != timelog.Management {
		t.Fatal("dashboard should use the new default discipline")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"timer", func() string { return timerStyle.Render("test") }},
		{"timerRunning", func() string { return timerRunningStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
		{"discipline", func() string { return disciplineStyle(timelog.Design).Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
