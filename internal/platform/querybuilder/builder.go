package querybuilder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"
)

type Condition interface {
	appendSQL(buf *bytebufferpool.ByteBuffer, args *[]any, argIndex *int)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) appendSQL(buf *bytebufferpool.ByteBuffer, args *[]any, argIndex *int) {
	_, _ = buf.WriteString(c.column)
	_, _ = buf.WriteString(" = ")
	_, _ = buf.WriteString(placeholder(*argIndex))
	*args = append(*args, c.value)
	*argIndex = *argIndex + 1
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("SELECT ")
	_, _ = buf.WriteString(strings.Join(b.columns, ", "))
	_, _ = buf.WriteString(" FROM ")
	_, _ = buf.WriteString(b.table)

	args := make([]any, 0, len(b.where))
	argIndex := 1
	if len(b.where) > 0 {
		_, _ = buf.WriteString(" WHERE ")
		for i, c := range b.where {
			if i > 0 {
				_, _ = buf.WriteString(" AND ")
			}
			c.appendSQL(buf, &args, &argIndex)
		}
	}
	if b.limit > 0 {
		_, _ = buf.WriteString(" LIMIT ")
		_, _ = buf.WriteString(strconv.Itoa(b.limit))
	}

	return buf.String(), args, nil
}

// InsertBuilder renders one multi-row INSERT. Column names are quoted.
type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("INSERT INTO ")
	_, _ = buf.WriteString(b.table)
	_, _ = buf.WriteString(" (")
	for i, col := range b.columns {
		if i > 0 {
			_, _ = buf.WriteString(", ")
		}
		_, _ = buf.WriteString(QuoteIdent(col))
	}
	_, _ = buf.WriteString(") VALUES ")

	args := make([]any, 0, len(b.rows)*len(b.columns))
	argIndex := 1
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			_, _ = buf.WriteString(", ")
		}
		_ = buf.WriteByte('(')
		for colIdx, value := range row {
			if colIdx > 0 {
				_, _ = buf.WriteString(", ")
			}
			_, _ = buf.WriteString(placeholder(argIndex))
			args = append(args, value)
			argIndex++
		}
		_ = buf.WriteByte(')')
	}

	return buf.String(), args, nil
}

// ColumnDef is one column of a CREATE TABLE statement. SQLType is emitted verbatim.
type ColumnDef struct {
	Name    string
	SQLType string
	NotNull bool
}

type CreateTableBuilder struct {
	table       string
	columns     []ColumnDef
	ifNotExists bool
}

func CreateTable(table string) *CreateTableBuilder {
	return &CreateTableBuilder{table: table}
}

func (b *CreateTableBuilder) Column(name, sqlType string, notNull bool) *CreateTableBuilder {
	b.columns = append(b.columns, ColumnDef{Name: name, SQLType: sqlType, NotNull: notNull})
	return b
}

func (b *CreateTableBuilder) IfNotExists() *CreateTableBuilder {
	b.ifNotExists = true
	return b
}

func (b *CreateTableBuilder) ToSQL() (string, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", fmt.Errorf("create table name is required")
	}
	if len(b.columns) == 0 {
		return "", fmt.Errorf("create table columns are required")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("CREATE TABLE ")
	if b.ifNotExists {
		_, _ = buf.WriteString("IF NOT EXISTS ")
	}
	_, _ = buf.WriteString(b.table)
	_, _ = buf.WriteString(" (")
	for i, col := range b.columns {
		if strings.TrimSpace(col.Name) == "" || strings.TrimSpace(col.SQLType) == "" {
			return "", fmt.Errorf("create table column %d needs a name and type", i)
		}
		if i > 0 {
			_, _ = buf.WriteString(", ")
		}
		_, _ = buf.WriteString(QuoteIdent(col.Name))
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(col.SQLType)
		if col.NotNull {
			_, _ = buf.WriteString(" NOT NULL")
		}
	}
	_ = buf.WriteByte(')')

	return buf.String(), nil
}

// QuoteIdent double-quotes a Postgres identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QualifiedName quotes and joins schema and table.
func QualifiedName(schema, table string) string {
	if schema == "" {
		return QuoteIdent(table)
	}
	return QuoteIdent(schema) + "." + QuoteIdent(table)
}

func placeholder(i int) string {
	return "$" + strconv.Itoa(i)
}
