package writers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/synthlab/synth360/pkg/core"
)

// JSONWriter implements a writer for JSON files.
type JSONWriter struct {
	file     *os.File
	encoder  *json.Encoder
	firstRow bool
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(config core.WriterConfig) (core.DatasetWriter, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for JSON writer")
	}

	file, err := os.Create(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create JSON file: %w", err)
	}

	if _, err := file.WriteString("[\n"); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write opening bracket: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("  ", "  ")

	return &JSONWriter{
		file:     file,
		encoder:  encoder,
		firstRow: true,
	}, nil
}

// Write writes a record to the file, one JSON object per row.
func (w *JSONWriter) Write(ctx context.Context, record arrow.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	numRows := int(record.NumRows())
	numCols := int(record.NumCols())

	for i := 0; i < numRows; i++ {
		row := make(map[string]interface{}, numCols)
		for j := 0; j < numCols; j++ {
			col := record.Column(j)
			field := record.Schema().Field(j)

			if col.IsNull(i) {
				row[field.Name] = nil
				continue
			}
			switch col := col.(type) {
			case *array.Int64:
				row[field.Name] = col.Value(i)
			case *array.Float64:
				row[field.Name] = col.Value(i)
			case *array.Boolean:
				row[field.Name] = col.Value(i)
			case *array.String:
				row[field.Name] = col.Value(i)
			default:
				// Timestamps and anything else render as strings.
				row[field.Name] = col.ValueStr(i)
			}
		}

		if !w.firstRow {
			if _, err := w.file.WriteString(",\n"); err != nil {
				return fmt.Errorf("failed to write separator: %w", err)
			}
		} else {
			w.firstRow = false
		}

		if err := w.encoder.Encode(row); err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
	}

	return nil
}

// Close closes the writer and flushes any pending data.
func (w *JSONWriter) Close() error {
	var err error
	if _, werr := w.file.WriteString("\n]\n"); werr != nil {
		err = fmt.Errorf("failed to write closing bracket: %w", werr)
	}
	if cerr := w.file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close JSON file: %w", cerr)
	}
	return err
}
