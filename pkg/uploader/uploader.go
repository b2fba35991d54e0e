// Package uploader delivers generated datasets to the analytical sink in
// bounded chunks with retry and explicit partial-success accounting.
package uploader

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/apache/arrow-adbc/go/adbc"
	"go.uber.org/zap"

	"github.com/synthlab/synth360/integrations"
	"github.com/synthlab/synth360/metrics"
	"github.com/synthlab/synth360/pkg/core"
)

// Defaults. The chunk size keeps a single INSERT statement well under the
// sink's per-statement limits.
const (
	DefaultChunkSize  = 300
	DefaultMaxRetries = 3
	defaultBackoff    = 250 * time.Millisecond
	maxBackoff        = 5 * time.Second
)

// Uploader chunks a dataset and delivers it over a single scoped connection.
type Uploader struct {
	db         integrations.Database
	chunkSize  int
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
	onChunk    func(committed, total int)
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithChunkSize sets the number of rows delivered per statement.
func WithChunkSize(n int) UploaderOption {
	return func(u *Uploader) {
		if n > 0 {
			u.chunkSize = n
		}
	}
}

// WithMaxRetries bounds the retry count per chunk.
func WithMaxRetries(n int) UploaderOption {
	return func(u *Uploader) {
		if n >= 0 {
			u.maxRetries = n
		}
	}
}

// WithBackoff sets the base delay for exponential backoff between retries.
func WithBackoff(d time.Duration) UploaderOption {
	return func(u *Uploader) {
		if d > 0 {
			u.backoff = d
		}
	}
}

// WithUploadLogger sets the structured logger.
func WithUploadLogger(l *zap.Logger) UploaderOption {
	return func(u *Uploader) {
		u.logger = l
	}
}

// WithProgress registers a callback invoked after every committed chunk.
func WithProgress(fn func(committed, total int)) UploaderOption {
	return func(u *Uploader) {
		u.onChunk = fn
	}
}

// NewUploader constructs an Uploader against the given sink.
func NewUploader(db integrations.Database, options ...UploaderOption) *Uploader {
	u := &Uploader{
		db:         db,
		chunkSize:  DefaultChunkSize,
		maxRetries: DefaultMaxRetries,
		backoff:    defaultBackoff,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		opt(u)
	}
	return u
}

// Upload splits the dataset into chunks and delivers them to the destination
// table. The first chunk recreates the table; the rest append. The connection
// is released on every exit path. Committed chunks are never rolled back:
// when a later chunk fails, the result reports how far delivery got.
func (u *Uploader) Upload(ctx context.Context, ds *core.Dataset, table string) (metrics.UploadResult, error) {
	result := metrics.UploadResult{FailedChunk: -1}
	if ds == nil || ds.Len() == 0 {
		return result, &core.ConfigError{Field: "dataset", Message: "dataset is empty"}
	}
	if table == "" {
		return result, &core.ConfigError{Field: "table", Message: "destination table is required"}
	}

	total := (ds.Len() + u.chunkSize - 1) / u.chunkSize
	result.TotalChunks = total
	result.ChunkStates = make([]metrics.ChunkState, total)
	for i := range result.ChunkStates {
		result.ChunkStates[i] = metrics.ChunkPending
	}

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
	}()

	conn, err := u.db.OpenConnection()
	if err != nil {
		return result, &core.PermanentDeliveryError{Chunk: -1, Err: err}
	}
	defer conn.Close()

	u.logger.Info("Starting upload",
		zap.String("table", table),
		zap.Int("rows", ds.Len()),
		zap.Int("chunks", total),
		zap.Int("chunk_size", u.chunkSize))

	for i := 0; i < total; i++ {
		lo := i * u.chunkSize
		hi := lo + u.chunkSize
		if hi > ds.Len() {
			hi = ds.Len()
		}
		batch := ds.Records[lo:hi]

		if err := u.deliverChunk(ctx, conn, table, batch, i, &result); err != nil {
			result.ChunkStates[i] = metrics.ChunkFailed
			result.FailedChunk = i
			u.logger.Error("Upload failed",
				zap.Int("chunk", i),
				zap.Int("chunks_committed", result.ChunksSent),
				zap.Error(err))
			return result, err
		}

		result.ChunkStates[i] = metrics.ChunkCommitted
		result.ChunksSent++
		result.RowsSent += int64(len(batch))
		if u.onChunk != nil {
			u.onChunk(result.ChunksSent, total)
		}
	}

	result.Succeeded = true
	u.logger.Info("Upload complete",
		zap.String("table", table),
		zap.Int64("rows_sent", result.RowsSent),
		zap.Int("chunks_sent", result.ChunksSent))
	return result, nil
}

// deliverChunk pushes one chunk through the retry state machine. The first
// chunk recreates the destination table inside the retried unit, so a retry
// after a failed first insert starts from a clean table.
func (u *Uploader) deliverChunk(ctx context.Context, conn integrations.Connection, table string, batch []core.CustomerRecord, index int, result *metrics.UploadResult) error {
	stmt := insertSQL(table, batch)

	var lastErr error
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		if attempt == 0 {
			result.ChunkStates[index] = metrics.ChunkInFlight
		} else {
			result.ChunkStates[index] = metrics.ChunkRetrying
			if err := u.sleep(ctx, attempt); err != nil {
				return &core.TransientDeliveryError{Chunk: index, Err: err}
			}
			u.logger.Warn("Retrying chunk",
				zap.Int("chunk", index),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
		}

		lastErr = u.execChunk(ctx, conn, table, stmt, index)
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return &core.PermanentDeliveryError{Chunk: index, Err: lastErr}
		}
	}
	return &core.TransientDeliveryError{Chunk: index, Err: lastErr}
}

func (u *Uploader) execChunk(ctx context.Context, conn integrations.Connection, table, stmt string, index int) error {
	if index == 0 {
		if _, err := conn.Exec(ctx, createTableSQL(table)); err != nil {
			return err
		}
	}
	_, err := conn.Exec(ctx, stmt)
	return err
}

// sleep waits the exponential backoff delay for the given attempt, honoring
// context cancellation.
func (u *Uploader) sleep(ctx context.Context, attempt int) error {
	delay := u.backoff << (attempt - 1)
	if delay > maxBackoff {
		delay = maxBackoff
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isTransient classifies a delivery failure. Network and timeout failures are
// retried; auth and schema errors abort immediately.
func isTransient(err error) bool {
	var adbcErr adbc.Error
	if errors.As(err, &adbcErr) {
		switch adbcErr.Code {
		case adbc.StatusIO, adbc.StatusTimeout, adbc.StatusCancelled:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"timeout", "timed out", "connection reset", "broken pipe", "connection refused", "temporarily unavailable"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
