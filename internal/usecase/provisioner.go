package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
)

// ProvisionResult tells whether EnsureTable created the table.
type ProvisionResult struct {
	Table   warehouse.TableID
	Created bool
}

// Provisioner creates destination tables that do not exist yet. It never
// alters an existing table and is not safe against concurrent creators.
type Provisioner struct {
	catalog warehouse.Catalog
	logger  *logging.Logger
}

func NewProvisioner(catalog warehouse.Catalog, logger *logging.Logger) *Provisioner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Provisioner{catalog: catalog, logger: logger}
}

func (p *Provisioner) EnsureTable(ctx context.Context, rawTableID string, schema warehouse.Schema) (ProvisionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Provisioner.EnsureTable")
	defer span.End()

	tableID, err := warehouse.ParseTableID(rawTableID)
	if err != nil {
		return ProvisionResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(schema) == 0 {
		return ProvisionResult{}, fmt.Errorf("%w: schema for %s has no columns", ErrInvalidInput, tableID)
	}

	exists, err := p.catalog.TableExists(ctx, tableID)
	if err != nil {
		return ProvisionResult{}, fmt.Errorf("check table %s: %w", tableID, err)
	}
	if exists {
		p.logger.InfoContext(ctx, "table already exists", "table", tableID.String())
		return ProvisionResult{Table: tableID}, nil
	}

	if err := p.catalog.CreateTable(ctx, tableID, schema); err != nil {
		return ProvisionResult{}, fmt.Errorf("create table %s: %w", tableID, err)
	}
	p.logger.InfoContext(ctx, "table created", "table", tableID.String(), "columns", len(schema))
	return ProvisionResult{Table: tableID, Created: true}, nil
}
