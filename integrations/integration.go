// Package integrations provides the interface to the analytical sink and its
// concrete implementations.
package integrations

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Database represents the analytical sink receiving uploaded batches.
type Database interface {
	// OpenConnection creates a new scoped connection to the sink
	OpenConnection() (Connection, error)
	// Close closes the sink handle and all its connections
	Close()
	// ConnCount returns number of open connections
	ConnCount() int
}

// Connection represents a sink connection that can execute statements
type Connection interface {
	// Exec executes a statement that doesn't return results
	Exec(ctx context.Context, sql string) (int64, error)
	// Query executes a query and returns results
	Query(ctx context.Context, sql string) (array.RecordReader, error)
	// GetTableSchema returns the schema for a table
	GetTableSchema(ctx context.Context, catalog, schema *string, table string) (*arrow.Schema, error)
	// Close closes the connection
	Close()
}
