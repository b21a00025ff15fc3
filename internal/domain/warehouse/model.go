package warehouse

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTableID    = errors.New("invalid table id")
	ErrNamespaceNotFound = errors.New("warehouse namespace not found")
	ErrTableNotFound     = errors.New("warehouse table not found")
	ErrWriteRejected     = errors.New("warehouse rejected rows")
)

type FieldType string

const (
	FieldString    FieldType = "STRING"
	FieldInteger   FieldType = "INTEGER"
	FieldFloat     FieldType = "FLOAT"
	FieldBoolean   FieldType = "BOOLEAN"
	FieldTimestamp FieldType = "TIMESTAMP"
	FieldDate      FieldType = "DATE"
)

type Mode string

const (
	ModeNullable Mode = "NULLABLE"
	ModeRequired Mode = "REQUIRED"
)

// Column is one entry of a table schema.
type Column struct {
	Name string
	Type FieldType
	Mode Mode
}

func Nullable(name string, fieldType FieldType) Column {
	return Column{Name: name, Type: fieldType, Mode: ModeNullable}
}

func Required(name string, fieldType FieldType) Column {
	return Column{Name: name, Type: fieldType, Mode: ModeRequired}
}

// Schema is the ordered column layout of a table.
type Schema []Column

func (s Schema) Names() []string {
	out := make([]string, 0, len(s))
	for _, column := range s {
		out = append(out, column.Name)
	}
	return out
}

// Row maps column name to a scalar value; nil is NULL.
type Row map[string]any

// TableID is a three-part container.namespace.table identifier
// (project.dataset.table for BigQuery, database.schema.table for Postgres).
type TableID struct {
	Container string
	Namespace string
	Table     string
}

func ParseTableID(raw string) (TableID, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 3 {
		return TableID{}, fmt.Errorf("%w %q: expected container.namespace.table", ErrInvalidTableID, raw)
	}
	for idx := range parts {
		parts[idx] = strings.TrimSpace(parts[idx])
		if parts[idx] == "" {
			return TableID{}, fmt.Errorf("%w %q: empty segment", ErrInvalidTableID, raw)
		}
	}
	return TableID{Container: parts[0], Namespace: parts[1], Table: parts[2]}, nil
}

func (t TableID) String() string {
	return t.Container + "." + t.Namespace + "." + t.Table
}

// RowError is one structural problem reported for a row of a batch.
// Index is relative to the batch; -1 when the destination cannot attribute it.
type RowError struct {
	Index    int
	Location string
	Reason   string
	Message  string
}

func (e RowError) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "row %d", e.Index)
	if e.Location != "" {
		fmt.Fprintf(&b, " field=%s", e.Location)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, " reason=%s", e.Reason)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	return b.String()
}

// InsertError reports the rejected rows of the batch that stopped a write.
// Batch is zero-based; Offset is the position of the batch's first row in the
// full input.
type InsertError struct {
	Table     TableID
	Batch     int
	Offset    int
	RowErrors []RowError
}

func (e *InsertError) Error() string {
	parts := make([]string, 0, len(e.RowErrors))
	for _, item := range e.RowErrors {
		parts = append(parts, item.String())
	}
	return fmt.Sprintf(
		"insert into %s failed at batch %d (rows from offset %d): %d row error(s): [%s]",
		e.Table,
		e.Batch,
		e.Offset,
		len(e.RowErrors),
		strings.Join(parts, "; "),
	)
}

func (e *InsertError) Unwrap() error {
	return ErrWriteRejected
}
