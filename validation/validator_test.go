package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthlab/synth360/integrations"
	"github.com/synthlab/synth360/metrics"
	"github.com/synthlab/synth360/pkg/core"
)

// columnAggregates is the canned MIN/MAX/null-count answer for one column.
type columnAggregates struct {
	min   float64
	max   float64
	nulls int64
}

// fakeSink serves scripted aggregate answers instead of a live store.
type fakeSink struct {
	rowCount   int64
	aggregates map[string]columnAggregates
	queryErr   error
	connClosed bool
}

func (s *fakeSink) OpenConnection() (integrations.Connection, error) {
	return &fakeSinkConn{sink: s}, nil
}

func (s *fakeSink) Close()         {}
func (s *fakeSink) ConnCount() int { return 1 }

type fakeSinkConn struct {
	sink *fakeSink
}

func (c *fakeSinkConn) Exec(context.Context, string) (int64, error) {
	return 0, errors.New("read-only")
}

func (c *fakeSinkConn) Query(_ context.Context, sql string) (array.RecordReader, error) {
	if c.sink.queryErr != nil {
		return nil, c.sink.queryErr
	}
	if strings.HasPrefix(sql, "SELECT COUNT(*)") {
		rec := countRecord(c.sink.rowCount)
		return array.NewRecordReader(rec.Schema(), []arrow.Record{rec})
	}
	agg, ok := c.sink.aggregates[aggColumn(sql)]
	if !ok {
		// Columns without a scripted answer look healthy.
		agg = columnAggregates{min: 0, max: 1, nulls: 0}
	}
	rec := aggRecord(agg.min, agg.max, agg.nulls)
	return array.NewRecordReader(rec.Schema(), []arrow.Record{rec})
}

func (c *fakeSinkConn) GetTableSchema(context.Context, *string, *string, string) (*arrow.Schema, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeSinkConn) Close() { c.sink.connClosed = true }

// aggColumn extracts the column name from a MIN/MAX aggregate query.
func aggColumn(sql string) string {
	start := strings.Index(sql, "MIN(")
	if start < 0 {
		return ""
	}
	start += len("MIN(")
	end := strings.Index(sql[start:], ")")
	return sql[start : start+end]
}

func countRecord(n int64) arrow.Record {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "count_star()", Type: arrow.PrimitiveTypes.Int64},
	}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).Append(n)
	return b.NewRecord()
}

func aggRecord(minVal, maxVal float64, nulls int64) arrow.Record {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "min", Type: arrow.PrimitiveTypes.Float64},
		{Name: "max", Type: arrow.PrimitiveTypes.Float64},
		{Name: "nulls", Type: arrow.PrimitiveTypes.Int64},
	}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Float64Builder).Append(minVal)
	b.Field(1).(*array.Float64Builder).Append(maxVal)
	b.Field(2).(*array.Int64Builder).Append(nulls)
	return b.NewRecord()
}

func datasetOf(n int) *core.Dataset {
	return &core.Dataset{Records: make([]core.CustomerRecord, n)}
}

func TestValidate_CleanLoad(t *testing.T) {
	sink := &fakeSink{
		rowCount: 10,
		aggregates: map[string]columnAggregates{
			"age": {min: 21, max: 78},
		},
	}
	v := NewValidator(sink, nil)

	report, err := v.Validate(context.Background(), datasetOf(10), "known_customer_360")
	require.NoError(t, err)

	assert.True(t, report.Status)
	assert.True(t, report.RowCount.Match)
	assert.Equal(t, int64(10), report.RowCount.ExpectedCount)
	assert.Equal(t, int64(10), report.RowCount.SinkCount)
	assert.Empty(t, report.Violations)
	assert.Len(t, report.ColumnsChecked, len(domainBounds))
	assert.True(t, sink.connClosed, "validation connection must be released")
}

func TestValidate_RowCountMismatchIsReportedNotRaised(t *testing.T) {
	sink := &fakeSink{rowCount: 7}
	v := NewValidator(sink, nil)

	report, err := v.Validate(context.Background(), datasetOf(10), "t")
	require.NoError(t, err, "a mismatch is a finding, not a failure")

	assert.False(t, report.Status)
	assert.False(t, report.RowCount.Match)
	assert.Equal(t, int64(3), report.RowCount.Difference)
	assert.Empty(t, report.Violations)
}

func TestValidate_RangeViolations(t *testing.T) {
	sink := &fakeSink{
		rowCount: 10,
		aggregates: map[string]columnAggregates{
			"age":              {min: 12, max: 78},
			"engagement_score": {min: 0.1, max: 1.4},
			"lifetime_value":   {min: 0, max: 900, nulls: 2},
		},
	}
	v := NewValidator(sink, nil)

	report, err := v.Validate(context.Background(), datasetOf(10), "t")
	require.NoError(t, err)

	assert.False(t, report.Status)
	assert.True(t, report.RowCount.Match, "row count stays clean even when ranges drift")
	require.Len(t, report.Violations, 3)

	byKey := map[string]metrics.RangeViolation{}
	for _, viol := range report.Violations {
		byKey[viol.Column+"/"+string(viol.Aggregate)] = viol
	}

	minViol, ok := byKey["age/"+string(metrics.Min)]
	require.True(t, ok, "expected a min violation for age, got %v", report.Violations)
	assert.Equal(t, 12.0, minViol.Value)

	maxViol, ok := byKey["engagement_score/"+string(metrics.Max)]
	require.True(t, ok)
	assert.Equal(t, 1.4, maxViol.Value)

	nullViol, ok := byKey["lifetime_value/"+string(metrics.NullCount)]
	require.True(t, ok)
	assert.Equal(t, 2.0, nullViol.Value)
}

func TestValidate_QueryFailureIsAnError(t *testing.T) {
	sink := &fakeSink{queryErr: errors.New("catalog unavailable")}
	v := NewValidator(sink, nil)

	_, err := v.Validate(context.Background(), datasetOf(5), "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog unavailable")
}
