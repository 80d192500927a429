package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/timelog/internal/config"
	"github.com/sadopc/timelog/internal/logging"
	"github.com/sadopc/timelog/internal/store"
	"github.com/sadopc/timelog/internal/tracker"
	"github.com/sadopc/timelog/internal/tui"
)

var (
	version   = "dev"
	dataDir   string
	cfg       *config.Config
	trk       *tracker.Tracker
	logger    *zap.Logger
	logCloser io.Closer
)

func defaultDataDir() string {
	dir, err := store.DefaultDataDir()
	if err != nil {
		return ".timelog"
	}
	return dir
}

var rootCmd = &cobra.Command{
	Use:     "timelog",
	Short:   "Track employee time on projects and turn it into wages",
	Version: version,
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		var err error
		cfg, err = config.Load(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// The terminal UI owns the screen, so it logs to a file.
		if isTUI(cmd) {
			logger, logCloser, err = logging.NewFile(cfg.LogPath(dataDir), cfg.LogLevel)
		} else {
			logger, err = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
		}
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}

		// The demo runs on its own throwaway registry
		if cmd.Name() == "demo" {
			return nil
		}

		trk, err = tracker.Open(store.DBPath(dataDir), tracker.Options{
			RecordDir: cfg.RecordPath(dataDir),
			Logger:    logger,
		})
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
	SilenceUsage: true,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// isTUI reports whether cmd opens the terminal UI: the bare root or tui.
func isTUI(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "tui"
}

func runTUI() error {
	app := tui.NewApp(trk, tui.Options{
		DataDir: dataDir,
		Config:  cfg,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path")
	rootCmd.AddCommand(tuiCmd)
}

// shutdown releases what PersistentPreRunE opened. It runs even when a
// command fails, which PersistentPostRun would not.
func shutdown() {
	if trk != nil {
		trk.Close()
		trk = nil
	}
	if logger != nil {
		logger.Sync()
		logger = nil
	}
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

func Execute(ctx context.Context) error {
	defer shutdown()
	return rootCmd.ExecuteContext(ctx)
}
