package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/fixture"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/odds"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/reference"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
)

const (
	CompetitionsFileName = "sr_competitions.json"
	SeasonsFileName      = "sr_seasons.json"
)

// RecordFiles is the local JSON interchange used between fetch and load runs.
type RecordFiles interface {
	ReadRecords(path string) ([]map[string]any, error)
	ReadDocument(path string) (map[string]any, error)
	WriteJSON(path string, value any) error
}

// LoadOptions selects one input file and its destination table.
type LoadOptions struct {
	InputPath string `validate:"required"`
	TableID   string `validate:"required"`
	BatchSize int    `validate:"gte=1"`
}

type LoadResult struct {
	Read    int
	Written int
}

// OddsQuery asks for odds of one fixture. Sportsbooks may exceed the
// per-request cap; the list is split and fetched one slice at a time.
type OddsQuery struct {
	FixtureID   string   `validate:"required"`
	Sportsbooks []string `validate:"required,min=1,dive,required"`
	Markets     []string `validate:"dive,required"`
	IsMain      *bool
	Historical  bool
}

type IngestionDeps struct {
	Fixtures  fixture.Source
	Odds      odds.Source
	Reference reference.Source
	Files     RecordFiles
	Writer    *BatchWriter
	Logger    *logging.Logger
}

// IngestionService composes fetch, flatten and write for each dataset.
// Sources and the writer are optional; an operation that needs a missing
// one fails with ErrInvalidInput.
type IngestionService struct {
	fixtures  fixture.Source
	odds      odds.Source
	reference reference.Source
	files     RecordFiles
	writer    *BatchWriter
	logger    *logging.Logger
	validate  *validator.Validate
}

func NewIngestionService(deps IngestionDeps) *IngestionService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		fixtures:  deps.Fixtures,
		odds:      deps.Odds,
		reference: deps.Reference,
		files:     deps.Files,
		writer:    deps.Writer,
		logger:    logger,
		validate:  validator.New(),
	}
}

func (s *IngestionService) FetchFixtures(ctx context.Context, params fixture.ListParams) ([]fixture.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.FetchFixtures")
	defer span.End()

	if s.fixtures == nil {
		return nil, fmt.Errorf("%w: fixture source is not configured", ErrInvalidInput)
	}
	items, err := s.fixtures.FetchAllFixtures(ctx, params)
	if err != nil {
		return items, fmt.Errorf("fetch fixtures sport=%s: %w", params.Sport, err)
	}
	s.logger.InfoContext(ctx, "fixtures fetched", "sport", params.Sport, "league", params.League, "items", len(items))
	return items, nil
}

// FetchFixturesToFile writes the full listing to path. Nothing is written when
// any page fails.
func (s *IngestionService) FetchFixturesToFile(ctx context.Context, params fixture.ListParams, path string) (int, error) {
	items, err := s.FetchFixtures(ctx, params)
	if err != nil {
		return 0, err
	}
	if err := s.writeFile(path, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// FetchOdds issues one request per sportsbook slice, in order, and
// concatenates the returned items.
func (s *IngestionService) FetchOdds(ctx context.Context, query OddsQuery) ([]odds.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.FetchOdds")
	defer span.End()

	if s.odds == nil {
		return nil, fmt.Errorf("%w: odds source is not configured", ErrInvalidInput)
	}
	if err := s.validate.StructCtx(ctx, query); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	fetch := s.odds.GetOdds
	if query.Historical {
		fetch = s.odds.GetHistoricalOdds
	}

	out := make([]odds.Record, 0, 8)
	for _, books := range odds.ChunkSportsbooks(query.Sportsbooks) {
		items, err := fetch(ctx, odds.Request{
			FixtureID:   query.FixtureID,
			Sportsbooks: books,
			Markets:     query.Markets,
			IsMain:      query.IsMain,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch odds fixture_id=%s sportsbooks=%v: %w", query.FixtureID, books, err)
		}
		out = append(out, items...)
	}
	s.logger.InfoContext(ctx, "odds fetched",
		"fixture_id", query.FixtureID,
		"historical", query.Historical,
		"items", len(out),
	)
	return out, nil
}

func (s *IngestionService) FetchOddsToFile(ctx context.Context, query OddsQuery, path string) (int, error) {
	items, err := s.FetchOdds(ctx, query)
	if err != nil {
		return 0, err
	}
	if err := s.writeFile(path, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

type ReferenceFetchResult struct {
	CompetitionsPath string
	Competitions     int
	SeasonsPath      string
	Seasons          int
}

// FetchReference downloads both reference documents. When dir is not empty
// the documents are saved there as sr_competitions.json and sr_seasons.json.
func (s *IngestionService) FetchReference(ctx context.Context, dir string) (ReferenceFetchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.FetchReference")
	defer span.End()

	if s.reference == nil {
		return ReferenceFetchResult{}, fmt.Errorf("%w: reference source is not configured", ErrInvalidInput)
	}

	competitions, err := s.reference.GetCompetitions(ctx)
	if err != nil {
		return ReferenceFetchResult{}, fmt.Errorf("fetch competitions: %w", err)
	}
	seasons, err := s.reference.GetSeasons(ctx)
	if err != nil {
		return ReferenceFetchResult{}, fmt.Errorf("fetch seasons: %w", err)
	}

	result := ReferenceFetchResult{
		Competitions: len(reference.Items(competitions, reference.KeyCompetitions)),
		Seasons:      len(reference.Items(seasons, reference.KeySeasons)),
	}
	if dir == "" {
		return result, nil
	}

	result.CompetitionsPath = filepath.Join(dir, CompetitionsFileName)
	if err := s.writeFile(result.CompetitionsPath, competitions); err != nil {
		return ReferenceFetchResult{}, err
	}
	result.SeasonsPath = filepath.Join(dir, SeasonsFileName)
	if err := s.writeFile(result.SeasonsPath, seasons); err != nil {
		return ReferenceFetchResult{}, err
	}
	return result, nil
}

// SyncFixtures fetches, flattens and writes fixtures without a file in between.
func (s *IngestionService) SyncFixtures(ctx context.Context, params fixture.ListParams, tableID string, batchSize int) (LoadResult, error) {
	items, err := s.FetchFixtures(ctx, params)
	if err != nil {
		return LoadResult{}, err
	}
	return s.writeRows(ctx, tableID, batchSize, len(items), flattenAll(items, fixture.Flatten))
}

func (s *IngestionService) LoadFixtures(ctx context.Context, opts LoadOptions) (LoadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.LoadFixtures")
	defer span.End()

	records, err := s.readRecords(ctx, opts)
	if err != nil {
		return LoadResult{}, err
	}
	return s.writeRows(ctx, opts.TableID, opts.BatchSize, len(records), flattenAll(records, fixture.Flatten))
}

// LoadOdds accepts flat odds records or fixture items carrying nested "odds"
// lists, as saved by FetchOddsToFile.
func (s *IngestionService) LoadOdds(ctx context.Context, opts LoadOptions) (LoadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.LoadOdds")
	defer span.End()

	records, err := s.readRecords(ctx, opts)
	if err != nil {
		return LoadResult{}, err
	}
	lines := odds.ExpandItems(records)
	return s.writeRows(ctx, opts.TableID, opts.BatchSize, len(lines), flattenAll(lines, odds.Flatten))
}

func (s *IngestionService) LoadCompetitions(ctx context.Context, opts LoadOptions) (LoadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.LoadCompetitions")
	defer span.End()

	return s.loadReference(ctx, opts, reference.KeyCompetitions, reference.FlattenCompetition)
}

func (s *IngestionService) LoadSeasons(ctx context.Context, opts LoadOptions) (LoadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.LoadSeasons")
	defer span.End()

	return s.loadReference(ctx, opts, reference.KeySeasons, reference.FlattenSeason)
}

func (s *IngestionService) loadReference(
	ctx context.Context,
	opts LoadOptions,
	key string,
	mapper func(reference.Record, string) warehouse.Row,
) (LoadResult, error) {
	if err := s.checkLoad(ctx, opts); err != nil {
		return LoadResult{}, err
	}
	doc, err := s.files.ReadDocument(opts.InputPath)
	if err != nil {
		return LoadResult{}, fmt.Errorf("read %s: %w", opts.InputPath, err)
	}

	generatedAt := reference.GeneratedAt(doc)
	items := reference.Items(doc, key)
	rows := flattenAll(items, func(rec reference.Record) warehouse.Row {
		return mapper(rec, generatedAt)
	})
	return s.writeRows(ctx, opts.TableID, opts.BatchSize, len(items), rows)
}

func (s *IngestionService) readRecords(ctx context.Context, opts LoadOptions) ([]map[string]any, error) {
	if err := s.checkLoad(ctx, opts); err != nil {
		return nil, err
	}
	records, err := s.files.ReadRecords(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.InputPath, err)
	}
	s.logger.InfoContext(ctx, "records read", "path", opts.InputPath, "records", len(records))
	return records, nil
}

func (s *IngestionService) checkLoad(ctx context.Context, opts LoadOptions) error {
	if s.files == nil || s.writer == nil {
		return fmt.Errorf("%w: load requires a file store and a warehouse writer", ErrInvalidInput)
	}
	if err := s.validate.StructCtx(ctx, opts); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (s *IngestionService) writeRows(ctx context.Context, tableID string, batchSize, read int, rows []warehouse.Row) (LoadResult, error) {
	if s.writer == nil {
		return LoadResult{Read: read}, fmt.Errorf("%w: warehouse writer is not configured", ErrInvalidInput)
	}
	written, err := s.writer.Write(ctx, tableID, rows, batchSize)
	return LoadResult{Read: read, Written: written}, err
}

func (s *IngestionService) writeFile(path string, value any) error {
	if s.files == nil {
		return fmt.Errorf("%w: file store is not configured", ErrInvalidInput)
	}
	if err := s.files.WriteJSON(path, value); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// flattenAll maps records in parallel; output order matches input order.
func flattenAll[T any](records []T, mapper func(T) warehouse.Row) []warehouse.Row {
	return iter.Map(records, func(rec *T) warehouse.Row {
		return mapper(*rec)
	})
}
