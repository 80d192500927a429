package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timelog/internal/config"
	"github.com/sadopc/timelog/internal/timelog"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// settingsModel edits config.yaml in the data directory.
type settingsModel struct {
	cfg     *config.Config
	dataDir string
	width   int
	height  int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	discipline *string
	recordDir  *string
	logLevel   *string
	logFile    *string
}

func newSettingsModel(cfg *config.Config, dataDir string) settingsModel {
	return settingsModel{
		cfg:        cfg,
		dataDir:    dataDir,
		discipline: new(string),
		recordDir:  new(string),
		logLevel:   new(string),
		logFile:    new(string),
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsSavedMsg struct {
	discipline timelog.Discipline
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.discipline = s.cfg.Discipline().String()
	*s.recordDir = s.cfg.RecordDir
	*s.logLevel = s.cfg.LogLevel
	if *s.logLevel == "" {
		*s.logLevel = "info"
	}
	*s.logFile = s.cfg.LogFile

	disciplineOptions := make([]huh.Option[string], len(timelog.Disciplines))
	for i, d := range timelog.Disciplines {
		disciplineOptions[i] = huh.NewOption(d.String(), d.String())
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default discipline").
				Options(disciplineOptions...).Value(s.discipline),
			huh.NewInput().Title("Record directory").
				Description("Relative to the data directory. Empty means records/.").
				Value(s.recordDir),
		).Title("Tracking"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Log level").
				Options(huh.NewOptions(logLevels...)...).Value(s.logLevel),
			huh.NewInput().Title("Log file").
				Description("Relative to the data directory. Empty means timelog.log.").
				Value(s.logFile),
		).Title("Logging"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.save(); err != nil {
			return s, errorCmd(err)
		}
		d := s.cfg.Discipline()
		return s, tea.Batch(
			func() tea.Msg { return settingsSavedMsg{discipline: d} },
			statusCmd("Settings saved. Record and log paths apply on next start."),
		)
	}

	return s, cmd
}

func (s settingsModel) save() error {
	s.cfg.DefaultDiscipline = *s.discipline
	s.cfg.RecordDir = *s.recordDir
	s.cfg.LogLevel = *s.logLevel
	s.cfg.LogFile = *s.logFile
	return config.Save(s.dataDir, s.cfg)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	level := s.cfg.LogLevel
	if level == "" {
		level = "info"
	}
	settings := [][2]string{
		{"data directory", s.dataDir},
		{"default discipline", s.cfg.Discipline().String()},
		{"record directory", s.cfg.RecordPath(s.dataDir)},
		{"log level", level},
		{"log file", s.cfg.LogPath(s.dataDir)},
	}

	var rows []string
	rows = append(rows, title, "")
	for _, kv := range settings {
		label := lipgloss.NewStyle().Width(24).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(kv[1])))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
