package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// -----------------------------
// Run Metadata
// -----------------------------

// RunMetadata captures high-level context for a generate-and-upload run.
type RunMetadata struct {
	Table     string        `json:"table"`
	Records   int           `json:"records"`
	Seed      int64         `json:"seed"`
	ChunkSize int           `json:"chunk_size"`
	Engine    string        `json:"engine"`
	Version   string        `json:"version"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// -----------------------------
// Upload Result Types
// -----------------------------

// ChunkState tracks one chunk through the delivery state machine.
type ChunkState string

const (
	ChunkPending   ChunkState = "pending"
	ChunkInFlight  ChunkState = "in_flight"
	ChunkRetrying  ChunkState = "retrying"
	ChunkCommitted ChunkState = "committed"
	ChunkFailed    ChunkState = "failed"
)

// UploadResult reports delivery accounting for one upload call. Partial
// success is explicit: ChunksSent counts committed chunks even when the
// upload as a whole failed, since committed chunks are never rolled back.
type UploadResult struct {
	RowsSent    int64         `json:"rows_sent"`
	ChunksSent  int           `json:"chunks_sent"`
	TotalChunks int           `json:"total_chunks"`
	Succeeded   bool          `json:"succeeded"`
	FailedChunk int           `json:"failed_chunk"` // -1 when no chunk failed
	ChunkStates []ChunkState  `json:"chunk_states"`
	Duration    time.Duration `json:"duration"`
}

// -----------------------------
// Validation Result Types
// -----------------------------

// RowCountResult compares the generated record count against the sink.
type RowCountResult struct {
	ExpectedCount int64 `json:"expected_count"`
	SinkCount     int64 `json:"sink_count"`
	Difference    int64 `json:"difference"`
	Match         bool  `json:"match"`
}

// AggregationType defines the aggregate functions used by range checks.
type AggregationType string

const (
	Min       AggregationType = "MIN"
	Max       AggregationType = "MAX"
	NullCount AggregationType = "NULL_COUNT"
)

// RangeViolation records one field-level aggregate outside its domain bounds.
type RangeViolation struct {
	Column     string          `json:"column"`
	Aggregate  AggregationType `json:"aggregate"`
	Value      float64         `json:"value"`
	LowerBound float64         `json:"lower_bound"`
	UpperBound float64         `json:"upper_bound"`
	Message    string          `json:"message"`
}

// ValidationReport aggregates post-load validation findings. Mismatches are
// reported here rather than raised; Status is false when any finding exists.
type ValidationReport struct {
	Table          string           `json:"table"`
	RowCount       RowCountResult   `json:"row_count"`
	Violations     []RangeViolation `json:"field_range_violations"`
	ColumnsChecked []string         `json:"columns_checked"`
	Status         bool             `json:"status"`
	StartTime      time.Time        `json:"start_time"`
	EndTime        time.Time        `json:"end_time"`
	Duration       time.Duration    `json:"duration"`
}

// RunReport bundles everything a pipeline run produced.
type RunReport struct {
	Metadata   RunMetadata      `json:"metadata"`
	Upload     UploadResult     `json:"upload"`
	Validation ValidationReport `json:"validation"`
}

// -----------------------------
// Report Storage
// -----------------------------

// ReportStore abstracts run report storage.
type ReportStore interface {
	Save(run RunReport) error
	SaveWithContext(ctx context.Context, run RunReport) error
}

// JSONReportStore stores run reports as JSON.
type JSONReportStore struct {
	FilePath string
}

func (j *JSONReportStore) Save(run RunReport) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	if j.FilePath != "" {
		return os.WriteFile(j.FilePath, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}

func (j *JSONReportStore) SaveWithContext(ctx context.Context, run RunReport) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return j.Save(run)
	}
}
