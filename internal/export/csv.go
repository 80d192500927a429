package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/timelog/internal/store"
)

func ToCSV(activities []store.Activity, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Employee", "Project", "Discipline", "Start", "End", "Hours", "Duration", "Wage"}); err != nil {
		return err
	}

	for _, a := range activities {
		endStr := ""
		if a.EndTime != nil {
			endStr = a.EndTime.Local().Format(time.RFC3339)
		}

		row := []string{
			a.ID,
			a.EmployeeName,
			a.ProjectName,
			a.Discipline,
			a.StartTime.Local().Format(time.RFC3339),
			endStr,
			strconv.FormatFloat(a.Hours, 'f', 6, 64),
			formatHours(a.Hours),
			strconv.FormatFloat(a.Wage, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// formatHours renders fractional hours as HH:MM:SS.
func formatHours(hours float64) string {
	secs := int64(hours*3600 + 0.5)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
