package fs

import (
	"context"
	"encoding/json"

	"github.com/bft-labs/assetship/internal/domain"
)

// ReportFile implements ports.ReportRepository using a JSON file.
type ReportFile struct {
	path string
}

// NewReportFile creates a ReportFile that writes to path.
func NewReportFile(path string) *ReportFile {
	return &ReportFile{path: path}
}

// Save writes the report as indented JSON, atomically.
func (r *ReportFile) Save(ctx context.Context, report *domain.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(r.path, append(data, '\n'), 0o644)
}

// Path returns the report file path.
func (r *ReportFile) Path() string {
	return r.path
}
