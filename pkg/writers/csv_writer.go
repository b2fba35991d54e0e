package writers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"

	"github.com/synthlab/synth360/pkg/core"
)

// CSVWriter writes records to a delimited file with a header row in export
// column order. This is the inspection backup written before upload.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	schema *arrow.Schema
}

// NewCSVWriter creates a new CSV writer.
func NewCSVWriter(config core.WriterConfig) (core.DatasetWriter, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for CSV writer")
	}

	file, err := os.Create(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	return &CSVWriter{file: file}, nil
}

// Write writes a record to the file. The writer is bound to the schema of
// the first record it sees.
func (w *CSVWriter) Write(ctx context.Context, record arrow.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if w.writer == nil {
		w.schema = record.Schema()
		w.writer = csv.NewWriter(w.file, w.schema,
			csv.WithHeader(true),
			csv.WithComma(','),
		)
	} else if !w.schema.Equal(record.Schema()) {
		return errors.New("record schema does not match writer schema")
	}

	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write CSV record: %w", err)
	}
	return nil
}

// Close flushes pending rows and closes the file.
func (w *CSVWriter) Close() error {
	var err error
	if w.writer != nil {
		if ferr := w.writer.Flush(); ferr != nil {
			err = fmt.Errorf("failed to flush CSV writer: %w", ferr)
		}
	}
	if cerr := w.file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close CSV file: %w", cerr)
	}
	return err
}
