package app

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/sportsdata-ingest/internal/config"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/usecase"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("ENV_FILE", "")
	t.Setenv("WAREHOUSE_DRIVER", config.WarehouseMemory)
	t.Setenv(config.KeyOddsTableID, "dry.run.odds")
	t.Setenv(config.KeyFixturesTableID, "")
	t.Setenv(config.KeyOddsJamAPIKey, "")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestApp_TableProvisionsUnderMemoryDriver(t *testing.T) {
	ctx := context.Background()
	a := New(memoryConfig(t), nil)
	defer a.Close()

	spec, err := a.Table(ctx, DatasetOdds)
	if err != nil {
		t.Fatalf("resolve odds table: %v", err)
	}
	if spec.TableID != "dry.run.odds" || spec.BatchSize != 10000 || len(spec.Schema) != 16 {
		t.Fatalf("unexpected spec: %+v", spec)
	}

	wh, err := a.Warehouse(ctx)
	if err != nil {
		t.Fatalf("open warehouse: %v", err)
	}
	id, _ := warehouse.ParseTableID(spec.TableID)
	exists, err := wh.TableExists(ctx, id)
	if err != nil || !exists {
		t.Fatalf("expected table to exist, got exists=%v err=%v", exists, err)
	}
}

func TestApp_MissingTableSetting(t *testing.T) {
	a := New(memoryConfig(t), nil)

	_, err := a.Table(context.Background(), DatasetFixtures)
	if !errors.Is(err, config.ErrMissingSetting) {
		t.Fatalf("expected missing setting, got=%v", err)
	}
}

func TestApp_UnknownDataset(t *testing.T) {
	a := New(memoryConfig(t), nil)

	_, err := a.Table(context.Background(), "players")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got=%v", err)
	}
}

func TestApp_OddsJamRequiresKey(t *testing.T) {
	a := New(memoryConfig(t), nil)

	if _, err := a.OddsJam(); !errors.Is(err, config.ErrMissingSetting) {
		t.Fatalf("expected missing setting, got=%v", err)
	}
}

func TestApp_PostgresContainerMustMatchDatabase(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("WAREHOUSE_DRIVER", config.WarehousePostgres)
	t.Setenv(config.KeyOddsTableID, "other_db.raw.odds")
	t.Setenv(config.KeyDBURL, "postgres://u:p@localhost:5432/analytics?sslmode=disable")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	_, err = New(cfg, nil).Table(context.Background(), DatasetOdds)
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input for mismatched database, got=%v", err)
	}
}

func TestApp_ResolveDoesNotProvision(t *testing.T) {
	ctx := context.Background()
	a := New(memoryConfig(t), nil)
	defer a.Close()

	spec, err := a.Resolve(DatasetOdds)
	if err != nil {
		t.Fatalf("resolve odds table: %v", err)
	}

	wh, err := a.Warehouse(ctx)
	if err != nil {
		t.Fatalf("open warehouse: %v", err)
	}
	id, _ := warehouse.ParseTableID(spec.TableID)
	exists, err := wh.TableExists(ctx, id)
	if err != nil || exists {
		t.Fatalf("expected no table after resolve, got exists=%v err=%v", exists, err)
	}
}
