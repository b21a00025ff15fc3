package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type Config struct {
	ProjectID       string
	CredentialsFile string
	Logger          *logging.Logger
}

// Warehouse streams rows into BigQuery tables addressed as
// project.dataset.table.
type Warehouse struct {
	client *bigquery.Client
	logger *logging.Logger
}

var _ warehouse.Warehouse = (*Warehouse)(nil)

// Open builds a client from a credential file when one is given and from
// application default credentials otherwise.
func Open(ctx context.Context, cfg Config) (*Warehouse, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = bigquery.DetectProjectID
	}

	opts := make([]option.ClientOption, 0, 1)
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, crerr.Wrap(err, "create bigquery client")
	}
	return &Warehouse{client: client, logger: logger.Named("warehouse.bigquery")}, nil
}

func (w *Warehouse) table(id warehouse.TableID) *bigquery.Table {
	return w.client.DatasetInProject(id.Container, id.Namespace).Table(id.Table)
}

func (w *Warehouse) TableExists(ctx context.Context, id warehouse.TableID) (bool, error) {
	if _, err := w.table(id).Metadata(ctx); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, crerr.Wrapf(err, "get table metadata %s", id)
	}
	return true, nil
}

func (w *Warehouse) CreateTable(ctx context.Context, id warehouse.TableID, schema warehouse.Schema) error {
	bqSchema, err := schemaFor(schema)
	if err != nil {
		return err
	}
	if err := w.table(id).Create(ctx, &bigquery.TableMetadata{Schema: bqSchema}); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: dataset %s.%s", warehouse.ErrNamespaceNotFound, id.Container, id.Namespace)
		}
		return crerr.Wrapf(err, "create table %s", id)
	}
	return nil
}

// InsertRows streams one batch. BigQuery accepts or rejects the whole batch;
// per-row problems come back as row errors.
func (w *Warehouse) InsertRows(ctx context.Context, id warehouse.TableID, rows []warehouse.Row) ([]warehouse.RowError, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	savers := make([]bigquery.ValueSaver, 0, len(rows))
	for _, row := range rows {
		savers = append(savers, rowSaver(row))
	}

	err := w.table(id).Inserter().Put(ctx, savers)
	if err == nil {
		return nil, nil
	}
	if rowErrors, ok := rowErrorsFrom(err); ok {
		w.logger.WarnContext(ctx, "bigquery rejected rows", "table", id.String(), "row_errors", len(rowErrors))
		return rowErrors, nil
	}
	if isNotFound(err) {
		return nil, fmt.Errorf("%w: %s", warehouse.ErrTableNotFound, id)
	}
	return nil, crerr.Wrapf(err, "insert rows into %s", id)
}

func (w *Warehouse) Close() error {
	return w.client.Close()
}

type rowSaver warehouse.Row

// Save implements bigquery.ValueSaver. Rows are never deduplicated.
func (r rowSaver) Save() (map[string]bigquery.Value, string, error) {
	out := make(map[string]bigquery.Value, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out, bigquery.NoDedupeID, nil
}

func schemaFor(schema warehouse.Schema) (bigquery.Schema, error) {
	out := make(bigquery.Schema, 0, len(schema))
	for _, column := range schema {
		fieldType, err := fieldTypeFor(column.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", column.Name, err)
		}
		out = append(out, &bigquery.FieldSchema{
			Name:     column.Name,
			Type:     fieldType,
			Required: column.Mode == warehouse.ModeRequired,
		})
	}
	return out, nil
}

func fieldTypeFor(fieldType warehouse.FieldType) (bigquery.FieldType, error) {
	switch fieldType {
	case warehouse.FieldString:
		return bigquery.StringFieldType, nil
	case warehouse.FieldInteger:
		return bigquery.IntegerFieldType, nil
	case warehouse.FieldFloat:
		return bigquery.FloatFieldType, nil
	case warehouse.FieldBoolean:
		return bigquery.BooleanFieldType, nil
	case warehouse.FieldTimestamp:
		return bigquery.TimestampFieldType, nil
	case warehouse.FieldDate:
		return bigquery.DateFieldType, nil
	default:
		return "", fmt.Errorf("unsupported field type %q", fieldType)
	}
}

func rowErrorsFrom(err error) ([]warehouse.RowError, bool) {
	var multi bigquery.PutMultiError
	if !errors.As(err, &multi) {
		return nil, false
	}

	out := make([]warehouse.RowError, 0, len(multi))
	for _, rowErr := range multi {
		if len(rowErr.Errors) == 0 {
			out = append(out, warehouse.RowError{Index: rowErr.RowIndex, Reason: warehouse.ReasonInvalid})
			continue
		}
		for _, item := range rowErr.Errors {
			var bqErr *bigquery.Error
			if errors.As(item, &bqErr) {
				out = append(out, warehouse.RowError{
					Index:    rowErr.RowIndex,
					Location: bqErr.Location,
					Reason:   bqErr.Reason,
					Message:  bqErr.Message,
				})
				continue
			}
			out = append(out, warehouse.RowError{Index: rowErr.RowIndex, Message: item.Error()})
		}
	}
	return out, true
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
