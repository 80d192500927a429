package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sadopc/timelog/internal/timelog"
)

const recordSuffix = "_activite.json"

var _ timelog.Recorder = RecordFile{}

// RecordFile writes each completed activity to <employee name>_activite.json
// in Dir. Every employee has one file and the latest activity replaces it.
type RecordFile struct {
	Dir string
}

// Path returns the record file of the named employee.
func (r RecordFile) Path(employeeName string) string {
	name := strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(employeeName)
	return filepath.Join(r.Dir, name+recordSuffix)
}

func (r RecordFile) Record(rec timelog.ActivityRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if r.Dir != "" {
		if err := os.MkdirAll(r.Dir, 0o755); err != nil {
			return fmt.Errorf("create record dir: %w", err)
		}
	}
	if err := os.WriteFile(r.Path(rec.Employee.Name), data, 0o644); err != nil {
		return fmt.Errorf("write record file: %w", err)
	}
	return nil
}

// ReadRecord loads the last record written for the named employee.
func (r RecordFile) ReadRecord(employeeName string) (*timelog.ActivityRecord, error) {
	data, err := os.ReadFile(r.Path(employeeName))
	if err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}
	var rec timelog.ActivityRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record file: %w", err)
	}
	return &rec, nil
}
