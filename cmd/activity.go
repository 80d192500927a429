package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/timelog/internal/timelog"
)

var loginCmd = &cobra.Command{
	Use:   "login [login] [id]",
	Short: "Check a login and employee id",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var login, id string
		if len(args) > 0 {
			login = args[0]
		}
		if len(args) > 1 {
			id = args[1]
		}
		e, err := authenticate(login, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", e.Name)
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an activity on a project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authenticateFlags(cmd)
		if err != nil {
			return err
		}
		code, _ := cmd.Flags().GetString("project")
		if code == "" {
			return fmt.Errorf("--project is required")
		}
		d := cfg.Discipline()
		if s, _ := cmd.Flags().GetString("discipline"); s != "" {
			if d, err = timelog.ParseDiscipline(s); err != nil {
				return err
			}
		}

		a, err := trk.Start(e.ID, code, d)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Started %s on %s at %s\n",
			a.Discipline, a.Project.Name, a.Start.Local().Format("15:04:05"))
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running activity and record it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authenticateFlags(cmd)
		if err != nil {
			return err
		}
		a, err := trk.Stop(e.ID)
		out := cmd.OutOrStdout()
		if a == nil && err == nil {
			fmt.Fprintf(out, "No activity in progress for %s\n", e.Name)
			return nil
		}
		if a != nil {
			fmt.Fprintf(out, "Stopped %s on %s: %.6f h, wage %s\n",
				a.Discipline, a.Project.Name, a.TotalHours(), money(a.Wage()))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Record written to %s\n", trk.Records().Path(e.Name))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is working on what",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		running := 0
		for _, e := range trk.Employees() {
			a := e.Current()
			if a == nil {
				continue
			}
			running++
			fmt.Fprintf(out, "%s: %s on %s (%s), started %s\n",
				e.Name, a.Discipline, a.Project.Name, a.Project.Code, humanize.Time(a.Start))
		}
		if running == 0 {
			fmt.Fprintln(out, "No activity in progress.")
		}
		return nil
	},
}

// authenticateFlags reads --login and --id, prompting for what is missing.
func authenticateFlags(cmd *cobra.Command) (*timelog.Employee, error) {
	login, _ := cmd.Flags().GetString("login")
	id, _ := cmd.Flags().GetString("id")
	return authenticate(login, id)
}

func authenticate(login, id string) (*timelog.Employee, error) {
	if login == "" || id == "" {
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Login").Value(&login),
			huh.NewInput().Title("Employee id").EchoMode(huh.EchoModePassword).Value(&id),
		)).Run()
		if err != nil {
			return nil, fmt.Errorf("pass --login and --id to run without a prompt")
		}
	}
	return trk.Login(login, id)
}

func init() {
	for _, c := range []*cobra.Command{startCmd, stopCmd} {
		c.Flags().String("login", "", "login name")
		c.Flags().String("id", "", "employee id")
	}
	startCmd.Flags().String("project", "", "project code")
	startCmd.Flags().String("discipline", "", "DEVELOPMENT, DESIGN, TEST or MANAGEMENT (default from config)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
}

