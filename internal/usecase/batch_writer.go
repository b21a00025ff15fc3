package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
)

// Partition splits rows into contiguous batches of at most size rows.
// Concatenating the batches yields rows again; only the last may be short.
func Partition(rows []warehouse.Row, size int) [][]warehouse.Row {
	if size < 1 || len(rows) == 0 {
		return nil
	}
	out := make([][]warehouse.Row, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

// BatchWriter streams rows into one table batch by batch, in order.
type BatchWriter struct {
	inserter warehouse.Inserter
	logger   *logging.Logger
}

func NewBatchWriter(inserter warehouse.Inserter, logger *logging.Logger) *BatchWriter {
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchWriter{inserter: inserter, logger: logger}
}

// Write inserts rows into rawTableID and returns how many were written. The
// first batch with row errors stops the write with a *warehouse.InsertError;
// batches already written stay written.
func (w *BatchWriter) Write(ctx context.Context, rawTableID string, rows []warehouse.Row, size int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BatchWriter.Write")
	defer span.End()

	if size < 1 {
		return 0, fmt.Errorf("%w: batch size must be >= 1, got %d", ErrInvalidInput, size)
	}
	tableID, err := warehouse.ParseTableID(rawTableID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	written := 0
	for idx, batch := range Partition(rows, size) {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		rowErrors, err := w.inserter.InsertRows(ctx, tableID, batch)
		if err != nil {
			return written, fmt.Errorf("insert batch %d into %s: %w", idx, tableID, err)
		}
		if len(rowErrors) > 0 {
			w.logger.ErrorContext(ctx, "batch rejected",
				"table", tableID.String(),
				"batch", idx,
				"offset", written,
				"row_errors", len(rowErrors),
			)
			return written, &warehouse.InsertError{
				Table:     tableID,
				Batch:     idx,
				Offset:    written,
				RowErrors: rowErrors,
			}
		}

		written += len(batch)
		w.logger.InfoContext(ctx, "batch written",
			"table", tableID.String(),
			"batch", idx,
			"rows", len(batch),
			"total", written,
		)
	}
	return written, nil
}
