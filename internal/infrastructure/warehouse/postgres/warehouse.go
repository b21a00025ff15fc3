package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
	qb "github.com/riskibarqy/sportsdata-ingest/internal/platform/querybuilder"
)

// maxBindParams is the Postgres limit on placeholders in one statement.
const maxBindParams = 65535

const (
	codeInvalidSchemaName = "3F000"
	codeUndefinedTable    = "42P01"
)

// Warehouse writes rows into Postgres tables addressed as
// database.schema.table. The database part must match the connection.
type Warehouse struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewWarehouse(db *sqlx.DB, logger *logging.Logger) *Warehouse {
	if logger == nil {
		logger = logging.Default()
	}
	return &Warehouse{db: db, logger: logger.Named("warehouse.postgres")}
}

var _ warehouse.Warehouse = (*Warehouse)(nil)

func (w *Warehouse) TableExists(ctx context.Context, id warehouse.TableID) (bool, error) {
	query, args, err := qb.Select("1").
		From("information_schema.tables").
		Where(
			qb.Eq("table_catalog", id.Container),
			qb.Eq("table_schema", id.Namespace),
			qb.Eq("table_name", id.Table),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build table exists query: %w", err)
	}

	var one int
	if err := w.db.QueryRowxContext(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, crerr.Wrapf(err, "check table %s", id)
	}
	return true, nil
}

func (w *Warehouse) CreateTable(ctx context.Context, id warehouse.TableID, schema warehouse.Schema) error {
	query, err := createTableSQL(id, schema)
	if err != nil {
		return err
	}
	if _, err := w.db.ExecContext(ctx, query); err != nil {
		return classifyDDLError(id, err)
	}
	w.logger.DebugContext(ctx, "table created", "table", id.String(), "columns", len(schema))
	return nil
}

// InsertRows writes the batch in one transaction. Values the driver cannot
// encode are reported as row errors before anything is sent; data errors
// raised by Postgres are reported as a single unattributed row error.
func (w *Warehouse) InsertRows(ctx context.Context, id warehouse.TableID, rows []warehouse.Row) ([]warehouse.RowError, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	columns := columnNames(rows)
	values, rowErrors := rowValues(columns, rows)
	if len(rowErrors) > 0 {
		return rowErrors, nil
	}

	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "begin insert transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, chunk := range chunkRows(values, len(columns)) {
		builder := qb.InsertInto(qb.QualifiedName(id.Namespace, id.Table)).Columns(columns...)
		for _, row := range chunk {
			builder.Values(row...)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if rowErr, ok := rowErrorFrom(err); ok {
				return []warehouse.RowError{rowErr}, nil
			}
			return nil, classifyDDLError(id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, crerr.Wrap(err, "commit insert transaction")
	}
	return nil, nil
}

func (w *Warehouse) Close() error {
	return w.db.Close()
}

func createTableSQL(id warehouse.TableID, schema warehouse.Schema) (string, error) {
	builder := qb.CreateTable(qb.QualifiedName(id.Namespace, id.Table))
	for _, column := range schema {
		sqlType, err := sqlTypeFor(column.Type)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", column.Name, err)
		}
		builder.Column(column.Name, sqlType, column.Mode == warehouse.ModeRequired)
	}
	query, err := builder.ToSQL()
	if err != nil {
		return "", fmt.Errorf("build create table query: %w", err)
	}
	return query, nil
}

func sqlTypeFor(fieldType warehouse.FieldType) (string, error) {
	switch fieldType {
	case warehouse.FieldString:
		return "TEXT", nil
	case warehouse.FieldInteger:
		return "BIGINT", nil
	case warehouse.FieldFloat:
		return "DOUBLE PRECISION", nil
	case warehouse.FieldBoolean:
		return "BOOLEAN", nil
	case warehouse.FieldTimestamp:
		return "TIMESTAMPTZ", nil
	case warehouse.FieldDate:
		return "DATE", nil
	default:
		return "", fmt.Errorf("unsupported field type %q", fieldType)
	}
}

// columnNames is the sorted union of keys across the batch.
func columnNames(rows []warehouse.Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			seen[key] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func rowValues(columns []string, rows []warehouse.Row) ([][]any, []warehouse.RowError) {
	out := make([][]any, 0, len(rows))
	var rowErrors []warehouse.RowError
	for idx, row := range rows {
		values := make([]any, 0, len(columns))
		for _, column := range columns {
			value, ok := driverValue(row[column])
			if !ok {
				rowErrors = append(rowErrors, warehouse.RowError{
					Index:    idx,
					Location: column,
					Reason:   warehouse.ReasonInvalid,
					Message:  fmt.Sprintf("unsupported value type %T", row[column]),
				})
			}
			values = append(values, value)
		}
		out = append(out, values)
	}
	return out, rowErrors
}

func driverValue(value any) (any, bool) {
	switch typed := value.(type) {
	case nil, string, bool, int64, float64, time.Time:
		return typed, true
	case int:
		return int64(typed), true
	case int32:
		return int64(typed), true
	case float32:
		return float64(typed), true
	case json.Number:
		return typed.String(), true
	default:
		return nil, false
	}
}

func chunkRows(rows [][]any, width int) [][][]any {
	perChunk := len(rows)
	if width > 0 && perChunk*width > maxBindParams {
		perChunk = maxBindParams / width
	}
	if perChunk < 1 {
		perChunk = 1
	}
	out := make([][][]any, 0, (len(rows)+perChunk-1)/perChunk)
	for start := 0; start < len(rows); start += perChunk {
		end := start + perChunk
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

// rowErrorFrom maps data exceptions (class 22) and integrity violations
// (class 23) to a row error.
func rowErrorFrom(err error) (warehouse.RowError, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return warehouse.RowError{}, false
	}
	class := string(pqErr.Code.Class())
	if class != "22" && class != "23" {
		return warehouse.RowError{}, false
	}
	return warehouse.RowError{
		Index:    -1,
		Location: pqErr.Column,
		Reason:   pqErr.Code.Name(),
		Message:  strings.TrimSpace(pqErr.Message + " " + pqErr.Detail),
	}, true
}

func classifyDDLError(id warehouse.TableID, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeInvalidSchemaName:
			return fmt.Errorf("%w: %s.%s", warehouse.ErrNamespaceNotFound, id.Container, id.Namespace)
		case codeUndefinedTable:
			return fmt.Errorf("%w: %s", warehouse.ErrTableNotFound, id)
		}
	}
	return crerr.Wrapf(err, "postgres table %s", id)
}
