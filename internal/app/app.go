package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/sportsdata-ingest/external/oddsjam"
	"github.com/riskibarqy/sportsdata-ingest/external/sportradar"
	"github.com/riskibarqy/sportsdata-ingest/internal/config"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/fixture"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/odds"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/reference"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/infrastructure/localfile"
	bqwarehouse "github.com/riskibarqy/sportsdata-ingest/internal/infrastructure/warehouse/bigquery"
	memwarehouse "github.com/riskibarqy/sportsdata-ingest/internal/infrastructure/warehouse/memory"
	pgwarehouse "github.com/riskibarqy/sportsdata-ingest/internal/infrastructure/warehouse/postgres"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
	"github.com/riskibarqy/sportsdata-ingest/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	DatasetOdds         = "odds"
	DatasetFixtures     = "fixtures"
	DatasetCompetitions = "competitions"
	DatasetSeasons      = "seasons"
)

// Datasets lists the names accepted by Table.
var Datasets = []string{DatasetOdds, DatasetFixtures, DatasetCompetitions, DatasetSeasons}

// TableSpec is the resolved destination of one dataset.
type TableSpec struct {
	Dataset   string
	TableID   string
	Schema    warehouse.Schema
	BatchSize int
}

// App builds collaborators on demand so a command only needs the settings it
// actually touches.
type App struct {
	cfg    config.Config
	logger *logging.Logger
	files  *localfile.Store

	mu        sync.Mutex
	warehouse warehouse.Warehouse
}

func New(cfg config.Config, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.Default()
	}
	return &App{cfg: cfg, logger: logger, files: localfile.NewStore()}
}

func (a *App) Files() *localfile.Store {
	return a.files
}

func (a *App) OddsJam() (*oddsjam.Client, error) {
	apiKey, err := a.cfg.OddsJamAPIKey()
	if err != nil {
		return nil, err
	}
	return oddsjam.NewClient(oddsjam.ClientConfig{
		BaseURL:  a.cfg.OddsJamBaseURL,
		APIKey:   apiKey,
		Timeout:  a.cfg.OddsJamTimeout,
		MaxPages: a.cfg.OddsJamMaxPages,
		Logger:   a.logger,
	}), nil
}

func (a *App) Sportradar() (*sportradar.Client, error) {
	apiKey, err := a.cfg.SportradarAPIKey()
	if err != nil {
		return nil, err
	}
	return sportradar.NewClient(sportradar.ClientConfig{
		BaseURL: a.cfg.SportradarBaseURL,
		APIKey:  apiKey,
		Timeout: a.cfg.SportradarTimeout,
		Logger:  a.logger,
	}), nil
}

// Resolve maps a dataset name to its table id, schema and default batch
// size without touching the warehouse.
func (a *App) Resolve(dataset string) (TableSpec, error) {
	spec, err := a.tableSpec(dataset)
	if err != nil {
		return TableSpec{}, err
	}
	if a.cfg.WarehouseDriver == config.WarehousePostgres {
		if err := a.checkPostgresContainer(spec.TableID); err != nil {
			return TableSpec{}, err
		}
	}
	return spec, nil
}

// Table is Resolve for write paths. Under the memory driver the table is
// created on first use so dry runs work without a create-table step.
func (a *App) Table(ctx context.Context, dataset string) (TableSpec, error) {
	spec, err := a.Resolve(dataset)
	if err != nil {
		return TableSpec{}, err
	}
	if a.cfg.WarehouseDriver != config.WarehouseMemory {
		return spec, nil
	}

	provisioner, err := a.Provisioner(ctx)
	if err != nil {
		return TableSpec{}, err
	}
	if _, err := provisioner.EnsureTable(ctx, spec.TableID, spec.Schema); err != nil {
		return TableSpec{}, err
	}
	return spec, nil
}

func (a *App) tableSpec(dataset string) (TableSpec, error) {
	var (
		tableID string
		err     error
		spec    = TableSpec{Dataset: dataset}
	)
	switch dataset {
	case DatasetOdds:
		tableID, err = a.cfg.OddsTableID()
		spec.Schema = odds.TableSchema()
		spec.BatchSize = a.cfg.OddsBatchSize
	case DatasetFixtures:
		tableID, err = a.cfg.FixturesTableID()
		spec.Schema = fixture.TableSchema()
		spec.BatchSize = a.cfg.FixturesBatchSize
	case DatasetCompetitions:
		tableID, err = a.cfg.CompetitionsTableID()
		spec.Schema = reference.CompetitionSchema()
		spec.BatchSize = a.cfg.ReferenceBatchSize
	case DatasetSeasons:
		tableID, err = a.cfg.SeasonsTableID()
		spec.Schema = reference.SeasonSchema()
		spec.BatchSize = a.cfg.ReferenceBatchSize
	default:
		return TableSpec{}, fmt.Errorf("%w: unknown dataset %q (valid: %v)", usecase.ErrInvalidInput, dataset, Datasets)
	}
	if err != nil {
		return TableSpec{}, err
	}
	spec.TableID = tableID
	return spec, nil
}

func (a *App) checkPostgresContainer(rawTableID string) error {
	id, err := warehouse.ParseTableID(rawTableID)
	if err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	dsn, err := a.cfg.DBURL()
	if err != nil {
		return err
	}
	if dbName := dbNameFromURL(dsn); dbName != "" && dbName != id.Container {
		return fmt.Errorf("%w: table %s is in database %q but %s points at %q", usecase.ErrInvalidInput, id, id.Container, config.KeyDBURL, dbName)
	}
	return nil
}

// Warehouse opens the configured backend once.
func (a *App) Warehouse(ctx context.Context) (warehouse.Warehouse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.warehouse != nil {
		return a.warehouse, nil
	}

	var (
		wh  warehouse.Warehouse
		err error
	)
	switch a.cfg.WarehouseDriver {
	case config.WarehouseMemory:
		wh = memwarehouse.NewWarehouse()
	case config.WarehousePostgres:
		wh, err = a.openPostgres()
	default:
		wh, err = bqwarehouse.Open(ctx, bqwarehouse.Config{
			ProjectID:       a.cfg.BigQueryProjectID,
			CredentialsFile: a.cfg.GoogleCredentialsFile,
			Logger:          a.logger,
		})
	}
	if err != nil {
		return nil, err
	}

	a.logger.Debug("warehouse opened", "driver", a.cfg.WarehouseDriver)
	a.warehouse = wh
	return wh, nil
}

func (a *App) openPostgres() (warehouse.Warehouse, error) {
	dsn, err := a.cfg.DBURL()
	if err != nil {
		return nil, err
	}

	db, err := otelsqlx.Open(
		"postgres",
		normalizeDBURL(dsn, a.cfg.ServiceName),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(1)
	return pgwarehouse.NewWarehouse(db, a.logger), nil
}

func (a *App) Provisioner(ctx context.Context) (*usecase.Provisioner, error) {
	wh, err := a.Warehouse(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewProvisioner(wh, a.logger), nil
}

func (a *App) BatchWriter(ctx context.Context) (*usecase.BatchWriter, error) {
	wh, err := a.Warehouse(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewBatchWriter(wh, a.logger), nil
}

func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.warehouse == nil {
		return nil
	}
	err := a.warehouse.Close()
	a.warehouse = nil
	if err != nil {
		return fmt.Errorf("close warehouse: %w", err)
	}
	return nil
}
