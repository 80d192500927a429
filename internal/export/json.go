package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timelog/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	TotalHours float64     `json:"total_hours"`
	TotalWage  float64     `json:"total_wage"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Employee    string  `json:"employee"`
	ProjectCode string  `json:"project_code"`
	Project     string  `json:"project"`
	Discipline  string  `json:"discipline"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time,omitempty"`
	Hours       float64 `json:"hours"`
	Duration    string  `json:"duration"`
	Wage        float64 `json:"wage"`
}

func ToJSON(activities []store.Activity, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(activities),
	}

	for _, a := range activities {
		endStr := ""
		if a.EndTime != nil {
			endStr = a.EndTime.Local().Format(time.RFC3339)
		}
		export.TotalHours += a.Hours
		export.TotalWage += a.Wage

		export.Entries = append(export.Entries, jsonEntry{
			ID:          a.ID,
			EmployeeID:  a.EmployeeID,
			Employee:    a.EmployeeName,
			ProjectCode: a.ProjectCode,
			Project:     a.ProjectName,
			Discipline:  a.Discipline,
			StartTime:   a.StartTime.Local().Format(time.RFC3339),
			EndTime:     endStr,
			Hours:       a.Hours,
			Duration:    formatHours(a.Hours),
			Wage:        a.Wage,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
