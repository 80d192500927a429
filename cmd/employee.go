package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/timelog/internal/timelog"
)

var employeeCmd = &cobra.Command{
	Use:   "employee",
	Short: "Manage employees",
}

var employeeAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register an employee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		login, _ := cmd.Flags().GetString("login")
		rate, _ := cmd.Flags().GetFloat64("rate")
		overtime, _ := cmd.Flags().GetFloat64("overtime")
		if id == "" || login == "" {
			return fmt.Errorf("--id and --login are required")
		}
		if rate < 0 || overtime < 0 {
			return fmt.Errorf("rates cannot be negative")
		}

		e := timelog.NewEmployee(args[0], id, login, rate, overtime)
		if err := trk.RegisterEmployee(e); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered employee %s (%s)\n", e.Name, e.ID)
		return nil
	},
}

var employeeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all employees",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), renderEmployeeTable(trk.Employees()))
		return nil
	},
}

func init() {
	employeeAddCmd.Flags().String("id", "", "employee id, also the login secret")
	employeeAddCmd.Flags().String("login", "", "login name")
	employeeAddCmd.Flags().Float64("rate", 0, "base hourly rate")
	employeeAddCmd.Flags().Float64("overtime", 0, "overtime hourly rate")

	employeeCmd.AddCommand(employeeAddCmd)
	employeeCmd.AddCommand(employeeListCmd)
	rootCmd.AddCommand(employeeCmd)
}
