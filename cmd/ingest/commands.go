package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/riskibarqy/sportsdata-ingest/internal/app"
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/fixture"
	"github.com/riskibarqy/sportsdata-ingest/internal/usecase"
)

const (
	defaultFixturesFile = "fixtures.json"
	defaultOddsFile     = "odds.json"
)

var commands = map[string]command{
	"create-table": {
		summary: "create destination tables: " + strings.Join(app.Datasets, "|") + " (one or more)",
		setup:   setupCreateTable,
	},
	"fetch-fixtures": {
		summary: "fetch the paginated fixture listing into a JSON file",
		setup:   setupFetchFixtures,
	},
	"sync-fixtures": {
		summary: "fetch fixtures and write them straight to the fixtures table",
		setup:   setupSyncFixtures,
	},
	"load-fixtures": {
		summary: "load a fixtures JSON file into the fixtures table",
		setup:   setupLoad(app.DatasetFixtures, defaultFixturesFile),
	},
	"fetch-odds": {
		summary: "fetch current or historical odds of one fixture into a JSON file",
		setup:   setupFetchOdds,
	},
	"load-odds": {
		summary: "load an odds JSON file into the odds table",
		setup:   setupLoad(app.DatasetOdds, defaultOddsFile),
	},
	"fetch-reference": {
		summary: "fetch Sportradar competitions and seasons",
		setup:   setupFetchReference,
	},
	"load-reference": {
		summary: "load sr_competitions.json and sr_seasons.json into their tables",
		setup:   setupLoadReference,
	},
}

func setupCreateTable(fs *flag.FlagSet) func(context.Context, *env) error {
	return func(ctx context.Context, e *env) error {
		if len(e.args) == 0 {
			return fmt.Errorf("%w: create-table needs a dataset (%s)", errUsage, strings.Join(app.Datasets, ", "))
		}

		specs := make([]app.TableSpec, 0, len(e.args))
		for _, dataset := range e.args {
			spec, err := e.app.Resolve(strings.ToLower(strings.TrimSpace(dataset)))
			if err != nil {
				return err
			}
			specs = append(specs, spec)
		}

		provisioner, err := e.app.Provisioner(ctx)
		if err != nil {
			return err
		}
		for _, spec := range specs {
			result, err := provisioner.EnsureTable(ctx, spec.TableID, spec.Schema)
			if err != nil {
				return err
			}
			if result.Created {
				fmt.Fprintf(e.stdout, "Created table: %s\n", result.Table)
			} else {
				fmt.Fprintf(e.stdout, "Table already exists: %s\n", result.Table)
			}
		}
		return nil
	}
}

type fixtureFlags struct {
	sport           string
	league          string
	startDateAfter  string
	startDateBefore string
	status          string
	seasonWeek      string
	isLive          optionalBool
	page            int
	maxPages        int
}

func bindFixtureFlags(fs *flag.FlagSet) *fixtureFlags {
	f := &fixtureFlags{}
	fs.StringVar(&f.sport, "sport", "tennis", "sport id")
	fs.StringVar(&f.league, "league", "", "league id")
	fs.StringVar(&f.startDateAfter, "start-date-after", "", "only fixtures starting after this ISO timestamp")
	fs.StringVar(&f.startDateBefore, "start-date-before", "", "only fixtures starting before this ISO timestamp")
	fs.StringVar(&f.status, "status", "", "unplayed|live|completed|cancelled|suspended")
	fs.StringVar(&f.seasonWeek, "season-week", "", "season week")
	fs.Var(&f.isLive, "is-live", "filter on live fixtures (--is-live or --is-live=false; omitted = no filter)")
	fs.IntVar(&f.page, "page", 1, "first page to request")
	fs.IntVar(&f.maxPages, "max-pages", 0, "page request cap (0 = ODDSJAM_MAX_PAGES)")
	return f
}

func (f *fixtureFlags) params() fixture.ListParams {
	return fixture.ListParams{
		Sport:           f.sport,
		League:          f.league,
		StartDateAfter:  f.startDateAfter,
		StartDateBefore: f.startDateBefore,
		Status:          f.status,
		SeasonWeek:      f.seasonWeek,
		IsLive:          f.isLive.Ptr(),
		Page:            f.page,
		MaxPages:        f.maxPages,
	}
}

func setupFetchFixtures(fs *flag.FlagSet) func(context.Context, *env) error {
	filters := bindFixtureFlags(fs)
	output := fs.String("output", defaultFixturesFile, "output JSON file")

	return func(ctx context.Context, e *env) error {
		client, err := e.app.OddsJam()
		if err != nil {
			return err
		}
		service := usecase.NewIngestionService(usecase.IngestionDeps{
			Fixtures: client,
			Files:    e.app.Files(),
			Logger:   e.logger,
		})

		n, err := service.FetchFixturesToFile(ctx, filters.params(), *output)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Wrote %d fixtures to %s\n", n, *output)
		return nil
	}
}

func setupSyncFixtures(fs *flag.FlagSet) func(context.Context, *env) error {
	filters := bindFixtureFlags(fs)
	batchSize := fs.Int("batch-size", 0, "rows per insert (0 = FIXTURES_BATCH_SIZE)")

	return func(ctx context.Context, e *env) error {
		client, err := e.app.OddsJam()
		if err != nil {
			return err
		}
		spec, err := e.app.Table(ctx, app.DatasetFixtures)
		if err != nil {
			return err
		}
		writer, err := e.app.BatchWriter(ctx)
		if err != nil {
			return err
		}
		service := usecase.NewIngestionService(usecase.IngestionDeps{
			Fixtures: client,
			Writer:   writer,
			Logger:   e.logger,
		})

		result, err := service.SyncFixtures(ctx, filters.params(), spec.TableID, pickBatchSize(*batchSize, spec))
		if err != nil {
			return withProgress(err, result)
		}
		fmt.Fprintf(e.stdout, "Fetched %d fixtures, wrote %d rows to %s\n", result.Read, result.Written, spec.TableID)
		return nil
	}
}

func setupFetchOdds(fs *flag.FlagSet) func(context.Context, *env) error {
	var (
		sportsbooks stringList
		markets     stringList
		isMain      optionalBool
	)
	fixtureID := fs.String("fixture-id", "", "fixture id (required)")
	fs.Var(&sportsbooks, "sportsbook", "sportsbook name, repeatable or comma separated (required)")
	fs.Var(&markets, "market", "market name, repeatable or comma separated")
	fs.Var(&isMain, "is-main", "main lines filter (--is-main or --is-main=false; omitted = no filter)")
	historical := fs.Bool("historical", false, "fetch historical odds instead of current")
	output := fs.String("output", defaultOddsFile, "output JSON file")

	return func(ctx context.Context, e *env) error {
		if strings.TrimSpace(*fixtureID) == "" || len(sportsbooks) == 0 {
			return fmt.Errorf("%w: fetch-odds needs --fixture-id and at least one --sportsbook", errUsage)
		}

		client, err := e.app.OddsJam()
		if err != nil {
			return err
		}
		service := usecase.NewIngestionService(usecase.IngestionDeps{
			Odds:   client,
			Files:  e.app.Files(),
			Logger: e.logger,
		})

		n, err := service.FetchOddsToFile(ctx, usecase.OddsQuery{
			FixtureID:   strings.TrimSpace(*fixtureID),
			Sportsbooks: sportsbooks,
			Markets:     markets,
			IsMain:      isMain.Ptr(),
			Historical:  *historical,
		}, *output)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Wrote %d odds items to %s\n", n, *output)
		return nil
	}
}

func setupLoad(dataset, defaultInput string) func(*flag.FlagSet) func(context.Context, *env) error {
	return func(fs *flag.FlagSet) func(context.Context, *env) error {
		input := fs.String("input", defaultInput, "input JSON file")
		batchSize := fs.Int("batch-size", 0, "rows per insert (0 = configured default)")

		return func(ctx context.Context, e *env) error {
			spec, err := e.app.Table(ctx, dataset)
			if err != nil {
				return err
			}
			writer, err := e.app.BatchWriter(ctx)
			if err != nil {
				return err
			}
			service := usecase.NewIngestionService(usecase.IngestionDeps{
				Files:  e.app.Files(),
				Writer: writer,
				Logger: e.logger,
			})

			opts := usecase.LoadOptions{
				InputPath: *input,
				TableID:   spec.TableID,
				BatchSize: pickBatchSize(*batchSize, spec),
			}
			load := service.LoadFixtures
			if dataset == app.DatasetOdds {
				load = service.LoadOdds
			}

			result, err := load(ctx, opts)
			if err != nil {
				return withProgress(err, result)
			}
			printLoad(e, spec, result)
			return nil
		}
	}
}

func setupFetchReference(fs *flag.FlagSet) func(context.Context, *env) error {
	dir := fs.String("write", "", "directory to write sr_competitions.json and sr_seasons.json (empty = counts only)")

	return func(ctx context.Context, e *env) error {
		client, err := e.app.Sportradar()
		if err != nil {
			return err
		}
		service := usecase.NewIngestionService(usecase.IngestionDeps{
			Reference: client,
			Files:     e.app.Files(),
			Logger:    e.logger,
		})

		result, err := service.FetchReference(ctx, *dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Competitions: %d\n", result.Competitions)
		fmt.Fprintf(e.stdout, "Seasons: %d\n", result.Seasons)
		if result.CompetitionsPath != "" {
			fmt.Fprintf(e.stdout, "Wrote %s\n", result.CompetitionsPath)
			fmt.Fprintf(e.stdout, "Wrote %s\n", result.SeasonsPath)
		}
		return nil
	}
}

func setupLoadReference(fs *flag.FlagSet) func(context.Context, *env) error {
	dir := fs.String("dir", ".", "directory holding sr_competitions.json and sr_seasons.json")
	batchSize := fs.Int("batch-size", 0, "rows per insert (0 = REFERENCE_BATCH_SIZE)")

	return func(ctx context.Context, e *env) error {
		competitions, err := e.app.Table(ctx, app.DatasetCompetitions)
		if err != nil {
			return err
		}
		seasons, err := e.app.Table(ctx, app.DatasetSeasons)
		if err != nil {
			return err
		}
		writer, err := e.app.BatchWriter(ctx)
		if err != nil {
			return err
		}
		service := usecase.NewIngestionService(usecase.IngestionDeps{
			Files:  e.app.Files(),
			Writer: writer,
			Logger: e.logger,
		})

		steps := []struct {
			spec app.TableSpec
			file string
			load func(context.Context, usecase.LoadOptions) (usecase.LoadResult, error)
		}{
			{competitions, usecase.CompetitionsFileName, service.LoadCompetitions},
			{seasons, usecase.SeasonsFileName, service.LoadSeasons},
		}
		for _, step := range steps {
			result, err := step.load(ctx, usecase.LoadOptions{
				InputPath: filepath.Join(*dir, step.file),
				TableID:   step.spec.TableID,
				BatchSize: pickBatchSize(*batchSize, step.spec),
			})
			if err != nil {
				return withProgress(err, result)
			}
			printLoad(e, step.spec, result)
		}
		return nil
	}
}

func pickBatchSize(override int, spec app.TableSpec) int {
	if override != 0 {
		return override
	}
	return spec.BatchSize
}

func printLoad(e *env, spec app.TableSpec, result usecase.LoadResult) {
	fmt.Fprintf(e.stdout, "Loaded %d of %d %s rows into %s\n", result.Written, result.Read, spec.Dataset, spec.TableID)
}

// withProgress keeps the count of rows already committed visible when a
// later batch fails.
func withProgress(err error, result usecase.LoadResult) error {
	if result.Written == 0 {
		return err
	}
	return fmt.Errorf("%d of %d rows written before failure: %w", result.Written, result.Read, err)
}
