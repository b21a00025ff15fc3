package warehouse

import "context"

// Catalog answers table existence and creates tables. It never alters an
// existing table.
type Catalog interface {
	TableExists(ctx context.Context, table TableID) (bool, error)
	CreateTable(ctx context.Context, table TableID, schema Schema) error
}

// Inserter streams one batch of rows. Structural rejections come back as
// row errors; the error return is reserved for transport and setup failures.
type Inserter interface {
	InsertRows(ctx context.Context, table TableID, rows []Row) ([]RowError, error)
}

type Warehouse interface {
	Catalog
	Inserter
	Close() error
}
