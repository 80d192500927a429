package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timelog/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded activities, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := activityFilter(cmd)
		if err != nil {
			return err
		}
		f.Limit, _ = cmd.Flags().GetInt("limit")

		activities, err := trk.History(f)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderActivityTable(activities))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export completed activities to CSV or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := activityFilter(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("output")
		if path == "" {
			path = fmt.Sprintf("timelog-export-%s.%s", time.Now().Format(dateLayout), format)
		}

		n, err := trk.Export(format, path, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d activities to %s\n", n, path)
		return nil
	},
}

// activityFilter reads the shared --employee, --project, --from and --to flags.
// --to is inclusive of the whole day.
func activityFilter(cmd *cobra.Command) (store.ActivityFilter, error) {
	var f store.ActivityFilter
	f.EmployeeID, _ = cmd.Flags().GetString("employee")
	f.ProjectCode, _ = cmd.Flags().GetString("project")

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	if fromStr != "" {
		from, err := parseDate(fromStr)
		if err != nil {
			return f, fmt.Errorf("--from: %w", err)
		}
		f.From = &from
	}
	if toStr != "" {
		to, err := parseDate(toStr)
		if err != nil {
			return f, fmt.Errorf("--to: %w", err)
		}
		to = to.AddDate(0, 0, 1)
		f.To = &to
	}
	return f, nil
}

func init() {
	for _, c := range []*cobra.Command{historyCmd, exportCmd} {
		c.Flags().String("employee", "", "only this employee id")
		c.Flags().String("project", "", "only this project code")
		c.Flags().String("from", "", "first day (YYYY-MM-DD)")
		c.Flags().String("to", "", "last day (YYYY-MM-DD)")
	}
	historyCmd.Flags().Int("limit", 50, "maximum rows, 0 for all")
	exportCmd.Flags().String("format", "csv", "csv or json")
	exportCmd.Flags().StringP("output", "o", "", "output file (default timelog-export-<date>.<format>)")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
}
