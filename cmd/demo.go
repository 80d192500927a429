package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timelog/internal/export"
	"github.com/sadopc/timelog/internal/timelog"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a sample start/stop cycle for Bula Bula on Projet A",
	Long: `Registers Bula Bula and Projet A in a throwaway registry, logs in,
starts a DEVELOPMENT activity, waits, stops it and writes the record file.
Nothing is stored in the database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wait, _ := cmd.Flags().GetDuration("wait")
		records := export.RecordFile{Dir: cfg.RecordPath(dataDir)}

		reg := timelog.NewRegistry(
			timelog.WithRecorder(records),
			timelog.WithLogger(logger),
		)
		e := timelog.NewEmployee("Bula Bula", "12345", "balthajonel", 20.0, 30.0)
		p := timelog.NewProject("Projet A", "001")
		if err := reg.AddEmployee(e); err != nil {
			return err
		}
		if err := reg.AddProject(p); err != nil {
			return err
		}

		if !reg.Authenticate("balthajonel", "12345") {
			return timelog.ErrAuthFailed
		}
		if _, err := reg.StartActivity(e, p, timelog.Development); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Working for %s...\n", wait)
		select {
		case <-time.After(wait):
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}

		a, err := reg.EndActivity(e)
		if a != nil {
			fmt.Fprintf(out, "%s worked %.6f h on %s, wage %.5f\n", e.Name, a.TotalHours(), p.Name, a.Wage())
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Record written to %s\n", records.Path(e.Name))
		return nil
	},
}

func init() {
	demoCmd.Flags().Duration("wait", 5*time.Second, "how long the sample activity runs")
	rootCmd.AddCommand(demoCmd)
}
