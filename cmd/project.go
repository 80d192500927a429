package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timelog/internal/store"
	"github.com/sadopc/timelog/internal/timelog"
)

const dateLayout = "2006-01-02"

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("code")
		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")
		budget, _ := cmd.Flags().GetStringToInt("budget")
		if code == "" {
			return fmt.Errorf("--code is required")
		}

		var opts []timelog.ProjectOption
		if startStr != "" || endStr != "" {
			start, err := parseDate(startStr)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			end, err := parseDate(endStr)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			if !start.IsZero() && !end.IsZero() && end.Before(start) {
				return fmt.Errorf("--end is before --start")
			}
			opts = append(opts, timelog.WithSchedule(start, end))
		}
		for name, hours := range budget {
			d, err := timelog.ParseDiscipline(name)
			if err != nil {
				return fmt.Errorf("--budget: %w", err)
			}
			if hours < 0 {
				return fmt.Errorf("--budget: %s hours cannot be negative", d)
			}
			opts = append(opts, timelog.WithBudget(d, hours))
		}

		p := timelog.NewProject(args[0], code, opts...)
		if err := trk.RegisterProject(p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Name, p.Code)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), renderProjectTable(trk.Projects()))
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show a project and its budget usage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := trk.Project(args[0])
		if err != nil {
			return err
		}
		usage, err := trk.BudgetUsage(p.Code)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", p.Name, p.Code)
		fmt.Fprintf(out, "Schedule: %s to %s\n\n", date(p.StartDate), date(p.EndDate))
		fmt.Fprintln(out, renderUsageTable(usage))
		return nil
	},
}

// parseDate reads YYYY-MM-DD as midnight UTC, the way stored dates reload.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return store.ParseDate(s)
}

func init() {
	projectAddCmd.Flags().String("code", "", "project code")
	projectAddCmd.Flags().String("start", "", "planned start date (YYYY-MM-DD)")
	projectAddCmd.Flags().String("end", "", "planned end date (YYYY-MM-DD)")
	projectAddCmd.Flags().StringToInt("budget", nil, "budgeted hours per discipline, e.g. DEVELOPMENT=40,TEST=10")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	rootCmd.AddCommand(projectCmd)
}
