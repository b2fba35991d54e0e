// Package validation implements the post-load validator. It is strictly
// read-only against the sink.
package validation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"go.uber.org/zap"

	"github.com/synthlab/synth360/integrations"
	"github.com/synthlab/synth360/metrics"
	"github.com/synthlab/synth360/pkg/core"
)

// Bound is the expected domain of one numeric column.
type Bound struct {
	Column string
	Lower  float64
	Upper  float64
}

// domainBounds mirrors the contractual field domains of the generated
// dataset.
var domainBounds = []Bound{
	{Column: "age", Lower: 18, Upper: 90},
	{Column: "engagement_score", Lower: 0, Upper: 1},
	{Column: "churn_risk_score", Lower: 0, Upper: 1},
	{Column: "lifetime_value", Lower: 0, Upper: math.Inf(1)},
	{Column: "order_count", Lower: 0, Upper: math.Inf(1)},
	{Column: "total_spend", Lower: 0, Upper: math.Inf(1)},
}

// Validator checks an uploaded table against the dataset it was built from.
type Validator struct {
	db     integrations.Database
	logger *zap.Logger
}

// NewValidator constructs a Validator against the given sink.
func NewValidator(db integrations.Database, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{db: db, logger: logger}
}

// Validate compares the sink row count against the generated dataset and
// checks min/max/null aggregates per numeric column against the expected
// domains. Mismatches are findings in the report, not errors; an error is
// returned only when the sink itself cannot be queried. The validator opens
// its own scoped connection.
func (v *Validator) Validate(ctx context.Context, ds *core.Dataset, table string) (metrics.ValidationReport, error) {
	report := metrics.ValidationReport{
		Table:     table,
		StartTime: time.Now(),
	}
	defer func() {
		report.EndTime = time.Now()
		report.Duration = report.EndTime.Sub(report.StartTime)
	}()

	conn, err := v.db.OpenConnection()
	if err != nil {
		return report, fmt.Errorf("failed to open validation connection: %w", err)
	}
	defer conn.Close()

	expected := int64(ds.Len())
	sinkCount, err := v.rowCount(ctx, conn, table)
	if err != nil {
		return report, fmt.Errorf("row count query failed: %w", err)
	}
	report.RowCount = metrics.RowCountResult{
		ExpectedCount: expected,
		SinkCount:     sinkCount,
		Difference:    expected - sinkCount,
		Match:         expected == sinkCount,
	}
	if !report.RowCount.Match {
		v.logger.Warn("Row count mismatch",
			zap.String("table", table),
			zap.Int64("expected", expected),
			zap.Int64("sink", sinkCount))
	}

	for _, bound := range domainBounds {
		report.ColumnsChecked = append(report.ColumnsChecked, bound.Column)
		violations, err := v.checkColumn(ctx, conn, table, bound)
		if err != nil {
			return report, fmt.Errorf("aggregate query failed for %s: %w", bound.Column, err)
		}
		report.Violations = append(report.Violations, violations...)
	}

	report.Status = report.RowCount.Match && len(report.Violations) == 0
	v.logger.Info("Validation complete",
		zap.String("table", table),
		zap.Bool("row_count_match", report.RowCount.Match),
		zap.Int("violations", len(report.Violations)))
	return report, nil
}

// rowCount runs COUNT(*) against the destination table.
func (v *Validator) rowCount(ctx context.Context, conn integrations.Connection, table string) (int64, error) {
	rec, release, err := v.queryOne(ctx, conn, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	if err != nil {
		return 0, err
	}
	defer release()

	val, ok := scalarAt(rec, 0)
	if !ok {
		return 0, fmt.Errorf("invalid row count result")
	}
	return int64(val), nil
}

// checkColumn fetches min, max and null count for one column and compares
// them to the expected domain.
func (v *Validator) checkColumn(ctx context.Context, conn integrations.Connection, table string, bound Bound) ([]metrics.RangeViolation, error) {
	query := fmt.Sprintf("SELECT MIN(%[1]s), MAX(%[1]s), COUNT(*) - COUNT(%[1]s) FROM %[2]s", bound.Column, table)
	rec, release, err := v.queryOne(ctx, conn, query)
	if err != nil {
		return nil, err
	}
	defer release()

	var violations []metrics.RangeViolation

	if minVal, ok := scalarAt(rec, 0); ok && minVal < bound.Lower {
		violations = append(violations, metrics.RangeViolation{
			Column:     bound.Column,
			Aggregate:  metrics.Min,
			Value:      minVal,
			LowerBound: bound.Lower,
			UpperBound: bound.Upper,
			Message:    fmt.Sprintf("minimum %v below lower bound %v", minVal, bound.Lower),
		})
	}
	if maxVal, ok := scalarAt(rec, 1); ok && maxVal > bound.Upper {
		violations = append(violations, metrics.RangeViolation{
			Column:     bound.Column,
			Aggregate:  metrics.Max,
			Value:      maxVal,
			LowerBound: bound.Lower,
			UpperBound: bound.Upper,
			Message:    fmt.Sprintf("maximum %v above upper bound %v", maxVal, bound.Upper),
		})
	}
	if nulls, ok := scalarAt(rec, 2); ok && nulls > 0 {
		violations = append(violations, metrics.RangeViolation{
			Column:     bound.Column,
			Aggregate:  metrics.NullCount,
			Value:      nulls,
			LowerBound: 0,
			UpperBound: 0,
			Message:    fmt.Sprintf("%v null values in non-nullable column", nulls),
		})
	}
	return violations, nil
}

// queryOne runs a query expected to return exactly one row and hands back
// that record plus a release func for the underlying reader.
func (v *Validator) queryOne(ctx context.Context, conn integrations.Connection, sql string) (arrow.Record, func(), error) {
	rr, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, nil, err
	}
	if !rr.Next() {
		rr.Release()
		if rr.Err() != nil {
			return nil, nil, rr.Err()
		}
		return nil, nil, fmt.Errorf("query returned no rows: %s", sql)
	}
	rec := rr.Record()
	rec.Retain()
	release := func() {
		rec.Release()
		rr.Release()
	}
	return rec, release, nil
}

// scalarAt extracts column col of the first row as a float64. Returns false
// for nulls and non-numeric columns.
func scalarAt(rec arrow.Record, col int) (float64, bool) {
	if rec.NumCols() <= int64(col) || rec.NumRows() < 1 {
		return 0, false
	}
	switch arr := rec.Column(col).(type) {
	case *array.Int64:
		if arr.IsNull(0) {
			return 0, false
		}
		return float64(arr.Value(0)), true
	case *array.Int32:
		if arr.IsNull(0) {
			return 0, false
		}
		return float64(arr.Value(0)), true
	case *array.Float64:
		if arr.IsNull(0) {
			return 0, false
		}
		return arr.Value(0), true
	case *array.Float32:
		if arr.IsNull(0) {
			return 0, false
		}
		return float64(arr.Value(0)), true
	default:
		return 0, false
	}
}
