package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/sportsdata-ingest/internal/domain/odds"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/reference"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/usecase"
)

func TestWarehouse_ProvisionAndWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	wh := NewWarehouse("proj.raw")
	provisioner := usecase.NewProvisioner(wh, nil)

	first, err := provisioner.EnsureTable(ctx, "proj.raw.odds", odds.TableSchema())
	if err != nil {
		t.Fatalf("ensure table: %v", err)
	}
	second, err := provisioner.EnsureTable(ctx, "proj.raw.odds", odds.TableSchema())
	if err != nil {
		t.Fatalf("ensure table again: %v", err)
	}
	if !first.Created || second.Created {
		t.Fatalf("expected created then already existed, got=%v,%v", first.Created, second.Created)
	}

	rows := []warehouse.Row{
		odds.Flatten(odds.Record{"id": "x", "olv": map[string]any{"price": 1.5}, "clv": nil}),
		odds.Flatten(odds.Record{"id": "y"}),
		odds.Flatten(odds.Record{"id": "z"}),
	}
	written, err := usecase.NewBatchWriter(wh, nil).Write(ctx, "proj.raw.odds", rows, 2)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if written != 3 {
		t.Fatalf("expected 3 rows written, got=%d", written)
	}

	id, _ := warehouse.ParseTableID("proj.raw.odds")
	stored := wh.Rows(id)
	if len(stored) != 3 || stored[0]["opening_line_price"] != 1.5 || stored[0]["closing_line_price"] != nil {
		t.Fatalf("unexpected stored rows: %+v", stored)
	}
}

func TestWarehouse_MissingNamespace(t *testing.T) {
	t.Parallel()

	wh := NewWarehouse("proj.raw")
	_, err := usecase.NewProvisioner(wh, nil).EnsureTable(context.Background(), "proj.other.odds", odds.TableSchema())
	if !errors.Is(err, warehouse.ErrNamespaceNotFound) {
		t.Fatalf("expected namespace not found, got=%v", err)
	}
}

func TestWarehouse_RejectsBatchWithInvalidRow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	wh := NewWarehouse()
	id, _ := warehouse.ParseTableID("proj.raw.seasons")
	if err := wh.CreateTable(ctx, id, reference.SeasonSchema()); err != nil {
		t.Fatalf("create table: %v", err)
	}

	rows := []warehouse.Row{
		reference.FlattenSeason(reference.Record{"id": "sr:season:1"}, ""),
		reference.FlattenSeason(reference.Record{"name": "no id"}, ""),
	}
	written, err := usecase.NewBatchWriter(wh, nil).Write(ctx, id.String(), rows, 10)
	var insertErr *warehouse.InsertError
	if !errors.As(err, &insertErr) {
		t.Fatalf("expected insert error, got=%v", err)
	}
	if written != 0 || len(insertErr.RowErrors) != 1 || insertErr.RowErrors[0].Index != 1 {
		t.Fatalf("unexpected result written=%d err=%+v", written, insertErr)
	}
	if len(wh.Rows(id)) != 0 {
		t.Fatalf("expected nothing stored from a rejected batch")
	}
}

func TestWarehouse_InsertIntoMissingTable(t *testing.T) {
	t.Parallel()

	wh := NewWarehouse()
	id, _ := warehouse.ParseTableID("proj.raw.none")
	_, err := wh.InsertRows(context.Background(), id, []warehouse.Row{{"id": "x"}})
	if !errors.Is(err, warehouse.ErrTableNotFound) {
		t.Fatalf("expected table not found, got=%v", err)
	}
}
