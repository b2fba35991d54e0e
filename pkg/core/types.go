// Package core provides the core types and interfaces for the synth360
// customer data pipeline.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// CustomerRecord is one synthetic customer. Records are immutable after
// assembly; all fields are populated by the generator.
type CustomerRecord struct {
	// Identity
	Ordinal    int64  `json:"ordinal"`
	CustomerID string `json:"customer_id"`
	SessionID  string `json:"session_id"`

	// Demographics
	Age      int64  `json:"age"`
	Gender   string `json:"gender"`
	Country  string `json:"geo_country"`
	State    string `json:"geo_state"`
	City     string `json:"geo_city"`
	Timezone string `json:"timezone"`

	// Contact (synthetic, never resolvable to a real person)
	Email string `json:"email"`
	Phone string `json:"phone_number"`

	// Digital footprint
	DeviceType      string `json:"device_type"`
	Browser         string `json:"browser_name"`
	OperatingSystem string `json:"operating_system"`
	UTMSource       string `json:"utm_source"`
	UTMMedium       string `json:"utm_medium"`
	UTMCampaign     string `json:"utm_campaign"`

	// Behavioral
	EngagementScore float64 `json:"engagement_score"`
	ChurnRisk       float64 `json:"churn_risk_score"`
	LifetimeValue   float64 `json:"lifetime_value"`
	Segment         string  `json:"segment"`

	// Transactional
	OrderCount int64   `json:"order_count"`
	TotalSpend float64 `json:"total_spend"`

	// Timestamps
	AccountCreatedAt time.Time `json:"account_created_at"`
	LastActivityAt   time.Time `json:"last_activity_at"`
}

// Dataset is an ordered collection of customer records. Insertion order is
// index order and identifiers are a contiguous sequence starting at zero.
type Dataset struct {
	Records []CustomerRecord
	Seed    int64
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Columns returns the column names in the fixed export order. The same order
// is used for the CSV header, the sink table definition and INSERT statements.
func Columns() []string {
	return []string{
		"ordinal", "customer_id", "session_id",
		"age", "gender", "geo_country", "geo_state", "geo_city", "timezone",
		"email", "phone_number",
		"device_type", "browser_name", "operating_system",
		"utm_source", "utm_medium", "utm_campaign",
		"engagement_score", "churn_risk_score", "lifetime_value", "segment",
		"order_count", "total_spend",
		"account_created_at", "last_activity_at",
	}
}

// TimestampType is the Arrow type used for the timestamp columns.
var TimestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

// Schema returns the Arrow schema for the dataset in export column order.
func Schema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "ordinal", Type: arrow.PrimitiveTypes.Int64},
		{Name: "customer_id", Type: arrow.BinaryTypes.String},
		{Name: "session_id", Type: arrow.BinaryTypes.String},
		{Name: "age", Type: arrow.PrimitiveTypes.Int64},
		{Name: "gender", Type: arrow.BinaryTypes.String},
		{Name: "geo_country", Type: arrow.BinaryTypes.String},
		{Name: "geo_state", Type: arrow.BinaryTypes.String},
		{Name: "geo_city", Type: arrow.BinaryTypes.String},
		{Name: "timezone", Type: arrow.BinaryTypes.String},
		{Name: "email", Type: arrow.BinaryTypes.String},
		{Name: "phone_number", Type: arrow.BinaryTypes.String},
		{Name: "device_type", Type: arrow.BinaryTypes.String},
		{Name: "browser_name", Type: arrow.BinaryTypes.String},
		{Name: "operating_system", Type: arrow.BinaryTypes.String},
		{Name: "utm_source", Type: arrow.BinaryTypes.String},
		{Name: "utm_medium", Type: arrow.BinaryTypes.String},
		{Name: "utm_campaign", Type: arrow.BinaryTypes.String},
		{Name: "engagement_score", Type: arrow.PrimitiveTypes.Float64},
		{Name: "churn_risk_score", Type: arrow.PrimitiveTypes.Float64},
		{Name: "lifetime_value", Type: arrow.PrimitiveTypes.Float64},
		{Name: "segment", Type: arrow.BinaryTypes.String},
		{Name: "order_count", Type: arrow.PrimitiveTypes.Int64},
		{Name: "total_spend", Type: arrow.PrimitiveTypes.Float64},
		{Name: "account_created_at", Type: TimestampType},
		{Name: "last_activity_at", Type: TimestampType},
	}, nil)
}

// Record materializes the dataset as a single Arrow record in export column
// order. The caller is responsible for releasing it.
func (d *Dataset) Record(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	schema := Schema()
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for _, rec := range d.Records {
		builder.Field(0).(*array.Int64Builder).Append(rec.Ordinal)
		builder.Field(1).(*array.StringBuilder).Append(rec.CustomerID)
		builder.Field(2).(*array.StringBuilder).Append(rec.SessionID)
		builder.Field(3).(*array.Int64Builder).Append(rec.Age)
		builder.Field(4).(*array.StringBuilder).Append(rec.Gender)
		builder.Field(5).(*array.StringBuilder).Append(rec.Country)
		builder.Field(6).(*array.StringBuilder).Append(rec.State)
		builder.Field(7).(*array.StringBuilder).Append(rec.City)
		builder.Field(8).(*array.StringBuilder).Append(rec.Timezone)
		builder.Field(9).(*array.StringBuilder).Append(rec.Email)
		builder.Field(10).(*array.StringBuilder).Append(rec.Phone)
		builder.Field(11).(*array.StringBuilder).Append(rec.DeviceType)
		builder.Field(12).(*array.StringBuilder).Append(rec.Browser)
		builder.Field(13).(*array.StringBuilder).Append(rec.OperatingSystem)
		builder.Field(14).(*array.StringBuilder).Append(rec.UTMSource)
		builder.Field(15).(*array.StringBuilder).Append(rec.UTMMedium)
		builder.Field(16).(*array.StringBuilder).Append(rec.UTMCampaign)
		builder.Field(17).(*array.Float64Builder).Append(rec.EngagementScore)
		builder.Field(18).(*array.Float64Builder).Append(rec.ChurnRisk)
		builder.Field(19).(*array.Float64Builder).Append(rec.LifetimeValue)
		builder.Field(20).(*array.StringBuilder).Append(rec.Segment)
		builder.Field(21).(*array.Int64Builder).Append(rec.OrderCount)
		builder.Field(22).(*array.Float64Builder).Append(rec.TotalSpend)

		created, err := arrow.TimestampFromTime(rec.AccountCreatedAt, arrow.Microsecond)
		if err != nil {
			return nil, fmt.Errorf("failed to convert account_created_at: %w", err)
		}
		builder.Field(23).(*array.TimestampBuilder).Append(created)

		activity, err := arrow.TimestampFromTime(rec.LastActivityAt, arrow.Microsecond)
		if err != nil {
			return nil, fmt.Errorf("failed to convert last_activity_at: %w", err)
		}
		builder.Field(24).(*array.TimestampBuilder).Append(activity)
	}

	return builder.NewRecord(), nil
}

// DatasetWriter defines an interface for writing a dataset to a destination.
type DatasetWriter interface {
	// Write writes a record to the destination.
	Write(ctx context.Context, record arrow.Record) error

	// Close closes the writer and flushes any pending data.
	Close() error
}

// WriterConfig provides configuration for creating a writer.
type WriterConfig struct {
	// Type is the type of the writer.
	Type string

	// Path is the path to the output file.
	Path string
}
