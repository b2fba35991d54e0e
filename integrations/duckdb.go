// duckdb.go
// DuckDB sink over the Arrow ADBC driver manager. The warehouse config
// options (host, warehouse, token) are passed straight through to the driver
// options map; presence is the caller's concern.
package integrations

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/apache/arrow-adbc/go/adbc"
	"github.com/apache/arrow-adbc/go/adbc/drivermgr"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Ensure DuckDB implements Database.
var _ Database = (*DuckDB)(nil)

// Ensure duckConn implements Connection.
var _ Connection = (*duckConn)(nil)

// Options define the configuration for opening the sink database.
type Options struct {
	// Path to the DuckDB file ("" => in-memory)
	Path string

	// DriverPath is the location of libduckdb.so, if empty => auto-detect
	DriverPath string

	// Extra holds passthrough driver options (host, warehouse, token).
	Extra map[string]string

	// Context for new database/connection usage
	Context context.Context
}

// Option is a functional config approach.
type Option func(*Options)

// WithPath sets a file path for the sink database.
func WithPath(p string) Option {
	return func(o *Options) {
		o.Path = p
	}
}

// WithDriverPath sets the path to the DuckDB driver library.
func WithDriverPath(p string) Option {
	return func(o *Options) {
		o.DriverPath = p
	}
}

// WithDriverOption passes one extra option through to the ADBC driver.
func WithDriverOption(key, value string) Option {
	return func(o *Options) {
		if o.Extra == nil {
			o.Extra = make(map[string]string)
		}
		o.Extra[key] = value
	}
}

// WithContext sets a custom Context for DB usage.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

// DuckDB is the primary struct managing the sink database via ADBC.
type DuckDB struct {
	mu     sync.Mutex
	db     adbc.Database
	driver adbc.Driver
	opts   Options

	conns []*duckConn // track open connections
}

// duckConn is a wrapper holding an open connection.
type duckConn struct {
	parent *DuckDB
	adbc.Connection
}

// NewDuckDB opens or creates a DuckDB instance (file-based or in-memory).
func NewDuckDB(options ...Option) (*DuckDB, error) {
	var opts Options
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	// Auto-detect driver if empty.
	dPath := opts.DriverPath
	if dPath == "" {
		switch runtime.GOOS {
		case "darwin":
			dPath = "/usr/local/lib/libduckdb.dylib"
		case "linux":
			dPath = "/usr/local/lib/libduckdb.so"
		case "windows":
			if home, err := os.UserHomeDir(); err == nil {
				dPath = home + "/Downloads/duckdb-windows-amd64/duckdb.dll"
			}
		}
	}

	dbOpts := map[string]string{
		"driver":     dPath,
		"entrypoint": "duckdb_adbc_init",
	}
	if opts.Path != "" {
		dbOpts["path"] = opts.Path
	}
	for k, v := range opts.Extra {
		if v != "" {
			dbOpts[k] = v
		}
	}

	driver := drivermgr.Driver{}
	db, err := driver.NewDatabase(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("error creating new DuckDB database: %w", err)
	}

	duck := &DuckDB{
		db:     db,
		driver: driver,
		opts:   opts,
	}

	// Create a new struct for cleanup
	cleanupDuck := new(DuckDB)
	*cleanupDuck = *duck
	runtime.AddCleanup(duck, func(db *DuckDB) { db.Close() }, cleanupDuck)

	return duck, nil
}

// OpenConnection creates a new connection to the sink.
func (d *DuckDB) OpenConnection() (Connection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	conn, err := d.db.Open(d.opts.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	dc := &duckConn{parent: d, Connection: conn}
	d.conns = append(d.conns, dc)

	// Create a new struct for cleanup
	cleanupConn := new(duckConn)
	*cleanupConn = *dc
	runtime.AddCleanup(dc, func(conn *duckConn) { conn.Close() }, cleanupConn)

	return dc, nil
}

// Close closes the sink database and all open connections.
func (d *DuckDB) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range d.conns {
		c.Connection.Close()
	}
	d.conns = nil
	d.db.Close()
	d.db = nil
}

// ConnCount returns the current number of open connections.
func (d *DuckDB) ConnCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

// Path returns the database file path, or empty if in-memory.
func (d *DuckDB) Path() string {
	return d.opts.Path
}

// --- duckConn methods to implement the Connection interface ---

// Exec executes a statement that doesn't produce a result set.
func (c *duckConn) Exec(ctx context.Context, sql string) (int64, error) {
	stmt, err := c.NewStatement()
	if err != nil {
		return -1, fmt.Errorf("failed to create statement: %w", err)
	}
	defer stmt.Close()

	if err := stmt.SetSqlQuery(sql); err != nil {
		return -1, fmt.Errorf("failed to set SQL query: %w", err)
	}
	affected, err := stmt.ExecuteUpdate(ctx)
	return affected, err
}

// Query executes a SQL query and returns a RecordReader.
func (c *duckConn) Query(ctx context.Context, sql string) (array.RecordReader, error) {
	stmt, err := c.NewStatement()
	if err != nil {
		return nil, fmt.Errorf("failed to create statement: %w", err)
	}
	if err := stmt.SetSqlQuery(sql); err != nil {
		stmt.Close()
		return nil, fmt.Errorf("failed to set SQL query: %w", err)
	}

	rr, _, err := stmt.ExecuteQuery(ctx)
	if err != nil {
		stmt.Close()
		return nil, err
	}
	return newWrappedRecordReader(rr, stmt), nil
}

// GetTableSchema returns the Arrow schema of a table.
func (c *duckConn) GetTableSchema(ctx context.Context, catalog, schema *string, table string) (*arrow.Schema, error) {
	return c.Connection.GetTableSchema(ctx, catalog, schema, table)
}

// Close closes the connection, removing it from the parent's tracking.
func (c *duckConn) Close() {
	if c.parent == nil {
		return
	}
	c.parent.mu.Lock()
	defer c.parent.mu.Unlock()

	for i, conn := range c.parent.conns {
		if conn == c {
			c.parent.conns[i] = c.parent.conns[len(c.parent.conns)-1]
			c.parent.conns = c.parent.conns[:len(c.parent.conns)-1]
			break
		}
	}
	c.Connection.Close()
	c.parent = nil
}

// --- recordReaderWrapper ties a RecordReader to its Statement lifetime ---

type recordReaderWrapper struct {
	rr   array.RecordReader
	stmt adbc.Statement
}

func (w *recordReaderWrapper) Schema() *arrow.Schema {
	return w.rr.Schema()
}

func (w *recordReaderWrapper) Next() bool {
	return w.rr.Next()
}

func (w *recordReaderWrapper) Record() arrow.Record {
	return w.rr.Record()
}

func (w *recordReaderWrapper) Err() error {
	return w.rr.Err()
}

func (w *recordReaderWrapper) Release() {
	w.rr.Release()
	_ = w.stmt.Close()
}

func (w *recordReaderWrapper) Retain() {
	w.rr.Retain()
}

func newWrappedRecordReader(rr array.RecordReader, stmt adbc.Statement) array.RecordReader {
	return &recordReaderWrapper{
		rr:   rr,
		stmt: stmt,
	}
}
