package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/synthlab/synth360/metrics"
)

// -----------------------------
// Report Generator Interfaces
// -----------------------------

// ReportGenerator defines the methods for generating run reports.
type ReportGenerator interface {
	GenerateRunReport(run metrics.RunReport) ([]byte, error)
	GenerateAlertNotification(run metrics.RunReport) ([]byte, error)
	SaveReportToFile(run metrics.RunReport, filePath string) error
	ReportFromFilePath(filePath string) (metrics.RunReport, error)
}

// -----------------------------
// JSON Report Generator
// -----------------------------

// JSONReportGenerator generates JSON reports.
type JSONReportGenerator struct{}

// GenerateRunReport serializes the RunReport to JSON.
func (j *JSONReportGenerator) GenerateRunReport(run metrics.RunReport) ([]byte, error) {
	return json.MarshalIndent(run, "", "  ")
}

// GenerateAlertNotification generates an alert message in JSON format for
// runs with delivery failures or validation findings.
func (j *JSONReportGenerator) GenerateAlertNotification(run metrics.RunReport) ([]byte, error) {
	alert := map[string]interface{}{
		"alert":            "Pipeline run requires attention",
		"table":            run.Metadata.Table,
		"upload_succeeded": run.Upload.Succeeded,
		"chunks_sent":      run.Upload.ChunksSent,
		"row_count_match":  run.Validation.RowCount.Match,
		"violations":       len(run.Validation.Violations),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	}
	return json.MarshalIndent(alert, "", "  ")
}

// SaveReportToFile saves the JSON report to a file.
func (j *JSONReportGenerator) SaveReportToFile(run metrics.RunReport, filePath string) error {
	data, err := j.GenerateRunReport(run)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// ReportFromFilePath loads a run report from a file.
func (j *JSONReportGenerator) ReportFromFilePath(path string) (metrics.RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return metrics.RunReport{}, fmt.Errorf("failed to read report file: %w", err)
	}
	var run metrics.RunReport
	if err := json.Unmarshal(data, &run); err != nil {
		return metrics.RunReport{}, fmt.Errorf("failed to parse report file: %w", err)
	}
	return run, nil
}

// SaveReport writes the run report to the given path using the JSON
// generator.
func SaveReport(run metrics.RunReport, jsonPath string) error {
	gen := &JSONReportGenerator{}
	if err := gen.SaveReportToFile(run, jsonPath); err != nil {
		return fmt.Errorf("failed to save JSON report: %w", err)
	}
	return nil
}
