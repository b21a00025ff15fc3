package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riskibarqy/sportsdata-ingest/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dryRunEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", "")
	t.Setenv("APP_ENV", config.EnvDev)
	t.Setenv("APP_LOG_LEVEL", "error")
	t.Setenv("WAREHOUSE_DRIVER", config.WarehouseMemory)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
	t.Setenv(config.KeyOddsTableID, "dry.run.odds")
	t.Setenv(config.KeyFixturesTableID, "dry.run.fixtures")
	t.Setenv(config.KeyCompetitionsTableID, "dry.run.competitions")
	t.Setenv(config.KeySeasonsTableID, "dry.run.seasons")
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_UsageErrors(t *testing.T) {
	dryRunEnv(t)

	code, _, stderr := runCLI()
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: ingest")

	code, _, stderr = runCLI("drop-table")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "drop-table"`)

	code, _, _ = runCLI("load-odds", "--no-such-flag")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI("create-table")
	assert.Equal(t, 2, code)
}

func TestRun_Help(t *testing.T) {
	code, stdout, _ := runCLI("help")
	assert.Equal(t, 0, code)
	for name := range commands {
		assert.Contains(t, stdout, name)
	}
}

func TestRun_CreateTableReportsExisting(t *testing.T) {
	dryRunEnv(t)

	code, stdout, stderr := runCLI("create-table", "odds", "odds")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Created table: dry.run.odds\nTable already exists: dry.run.odds\n", stdout)
}

func TestRun_CreateTableUnknownDataset(t *testing.T) {
	dryRunEnv(t)

	code, stdout, stderr := runCLI("create-table", "players")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `unknown dataset "players"`)
}

func TestRun_LoadFixturesDryRun(t *testing.T) {
	dryRunEnv(t)
	input := writeFile(t, t.TempDir(), "fixtures.json", `[
		{"id": "f1", "home_team_display": "A", "sport": {"id": "tennis"}},
		{"id": "f2", "home_team_display": "B", "sport": null},
		{"id": "f3", "home_competitors": [{"id": "p1"}]}
	]`)

	code, stdout, stderr := runCLI("load-fixtures", "--input", input, "--batch-size", "2")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Loaded 3 of 3 fixtures rows into dry.run.fixtures\n", stdout)
}

func TestRun_LoadOddsExpandsNestedItems(t *testing.T) {
	dryRunEnv(t)
	input := writeFile(t, t.TempDir(), "odds.json", `[
		{"id": "fx-1", "odds": [
			{"id": "o1", "sportsbook": "Pinnacle", "price": 1.5},
			{"id": "o2", "sportsbook": "Pinnacle", "olv": {"price": 1.5}, "clv": null}
		]}
	]`)

	code, stdout, stderr := runCLI("load-odds", "--input", input)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Loaded 2 of 2 odds rows into dry.run.odds\n", stdout)
}

func TestRun_LoadMissingInput(t *testing.T) {
	dryRunEnv(t)

	code, _, stderr := runCLI("load-fixtures", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "does not exist")
}

func TestRun_LoadReferenceStopsOnRejectedRow(t *testing.T) {
	dryRunEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "sr_competitions.json", `{
		"generated_at": "2026-01-10T08:00:00+00:00",
		"competitions": [{"id": "sr:competition:1", "name": "Australian Open"}, {"name": "no id"}]
	}`)
	writeFile(t, dir, "sr_seasons.json", `{"seasons": []}`)

	code, stdout, stderr := runCLI("load-reference", "--dir", dir, "--batch-size", "1")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "1 of 2 rows written before failure")
	assert.Contains(t, stderr, "failed at batch 1")
	assert.Contains(t, stderr, "field=id")
}

func TestRun_LoadReferenceDryRun(t *testing.T) {
	dryRunEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "sr_competitions.json", `{
		"generated_at": "2026-01-10T08:00:00+00:00",
		"competitions": [{"id": "sr:competition:1", "category": {"id": "sr:category:3", "name": "ATP"}}]
	}`)
	writeFile(t, dir, "sr_seasons.json", `{
		"generated_at": "2026-01-10T08:00:00+00:00",
		"seasons": [
			{"id": "sr:season:1", "start_date": "2026-01-12", "competition_id": "sr:competition:1"},
			{"id": "sr:season:2", "start_date": "2025-01-12", "competition_id": "sr:competition:1"}
		]
	}`)

	code, stdout, stderr := runCLI("load-reference", "--dir", dir)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t,
		"Loaded 1 of 1 competitions rows into dry.run.competitions\n"+
			"Loaded 2 of 2 seasons rows into dry.run.seasons\n",
		stdout,
	)
}

func TestRun_MissingTableSetting(t *testing.T) {
	dryRunEnv(t)
	t.Setenv(config.KeyFixturesTableID, "")

	code, _, stderr := runCLI("load-fixtures", "--input", "unused.json")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, config.KeyFixturesTableID)
}

func TestRun_FetchOddsNeedsFixtureAndSportsbook(t *testing.T) {
	dryRunEnv(t)

	code, _, stderr := runCLI("fetch-odds", "--sportsbook", "Pinnacle")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--fixture-id")
}

func TestRun_FetchFixturesNeedsAPIKey(t *testing.T) {
	dryRunEnv(t)
	t.Setenv(config.KeyOddsJamAPIKey, "")

	code, _, stderr := runCLI("fetch-fixtures", "--output", filepath.Join(t.TempDir(), "out.json"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, config.KeyOddsJamAPIKey)
}

func TestFixtureFlags_IsLiveTriState(t *testing.T) {
	cases := []struct {
		args []string
		want *bool
	}{
		{args: nil, want: nil},
		{args: []string{"--is-live"}, want: boolPtr(true)},
		{args: []string{"--is-live=false"}, want: boolPtr(false)},
	}
	for _, tc := range cases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			filters := bindFixtureFlags(fs)
			require.NoError(t, fs.Parse(tc.args))

			params := filters.params()
			assert.Equal(t, tc.want, params.IsLive)
			assert.Equal(t, "tennis", params.Sport)
			assert.Equal(t, 1, params.Page)
		})
	}
}

func TestStringList_RepeatedAndCommaSeparated(t *testing.T) {
	var books stringList
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&books, "sportsbook", "")

	require.NoError(t, fs.Parse([]string{"--sportsbook", "Pinnacle", "--sportsbook", "DraftKings, FanDuel,,"}))
	assert.Equal(t, stringList{"Pinnacle", "DraftKings", "FanDuel"}, books)
	assert.Equal(t, "Pinnacle,DraftKings,FanDuel", books.String())
}

func boolPtr(v bool) *bool {
	return &v
}
