package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
)

type table struct {
	schema warehouse.Schema
	rows   []warehouse.Row
}

// Warehouse keeps tables in process memory. It backs dry runs and tests and
// validates rows against the table schema like a strict streaming insert.
type Warehouse struct {
	mu         sync.RWMutex
	namespaces map[string]struct{}
	tables     map[warehouse.TableID]*table
}

// NewWarehouse creates a warehouse where the given "container.namespace"
// pairs exist. With no namespaces every namespace is accepted.
func NewWarehouse(namespaces ...string) *Warehouse {
	known := make(map[string]struct{}, len(namespaces))
	for _, ns := range namespaces {
		known[ns] = struct{}{}
	}
	return &Warehouse{
		namespaces: known,
		tables:     make(map[warehouse.TableID]*table),
	}
}

var _ warehouse.Warehouse = (*Warehouse)(nil)

func (w *Warehouse) TableExists(_ context.Context, id warehouse.TableID) (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.tables[id]
	return ok, nil
}

func (w *Warehouse) CreateTable(_ context.Context, id warehouse.TableID, schema warehouse.Schema) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.namespaces) > 0 {
		if _, ok := w.namespaces[id.Container+"."+id.Namespace]; !ok {
			return fmt.Errorf("%w: %s.%s", warehouse.ErrNamespaceNotFound, id.Container, id.Namespace)
		}
	}
	if _, ok := w.tables[id]; ok {
		return fmt.Errorf("table %s already exists", id)
	}
	w.tables[id] = &table{schema: append(warehouse.Schema(nil), schema...)}
	return nil
}

// InsertRows stores the batch only when every row is valid.
func (w *Warehouse) InsertRows(_ context.Context, id warehouse.TableID, rows []warehouse.Row) ([]warehouse.RowError, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", warehouse.ErrTableNotFound, id)
	}

	var rowErrors []warehouse.RowError
	for idx, row := range rows {
		rowErrors = append(rowErrors, warehouse.ValidateRow(t.schema, idx, row)...)
	}
	if len(rowErrors) > 0 {
		return rowErrors, nil
	}

	for _, row := range rows {
		copied := make(warehouse.Row, len(row))
		for key, value := range row {
			copied[key] = value
		}
		t.rows = append(t.rows, copied)
	}
	return nil, nil
}

// Rows returns a copy of the stored rows of a table, nil when absent.
func (w *Warehouse) Rows(id warehouse.TableID) []warehouse.Row {
	w.mu.RLock()
	defer w.mu.RUnlock()

	t, ok := w.tables[id]
	if !ok {
		return nil
	}
	out := make([]warehouse.Row, 0, len(t.rows))
	out = append(out, t.rows...)
	return out
}

func (w *Warehouse) Close() error {
	return nil
}
