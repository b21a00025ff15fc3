package fixture

import (
	"encoding/json"
	"testing"

	"github.com/riskibarqy/sportsdata-ingest/internal/platform/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixture = `{
  "id": "20260127CF5ECA5D",
  "numerical_id": 215113,
  "game_id": "32961-11818-2026-01-27",
  "start_date": "2026-01-27T08:00:00Z",
  "home_team_display": "J. Sinner",
  "away_team_display": "B. Shelton",
  "status": "completed",
  "is_live": false,
  "season_type": "regular season",
  "season_year": "2026",
  "season_week": "QF",
  "venue_name": "Rod Laver Arena",
  "venue_location": "Melbourne, Australia",
  "venue_neutral": true,
  "sport": {"id": "tennis", "name": "Tennis", "numerical_id": 11},
  "league": {"id": "atp", "name": "ATP", "numerical_id": 401},
  "has_odds": true,
  "home_competitors": [{"id": "A1", "name": "J. Sinner", "abbreviation": "SIN", "logo": null}],
  "away_competitors": [{"id": "B2", "name": "B. Shelton", "abbreviation": "SHE", "logo": null}],
  "result": {"scores": {"home": {"total": 3, "periods": {"period_1": 6}}, "away": {"total": 0}}},
  "unmapped_field": "dropped"
}`

func decodeFixture(t *testing.T, raw string) Record {
	t.Helper()
	var rec Record
	require.NoError(t, codec.Decode([]byte(raw), &rec))
	return rec
}

func TestFlatten_ColumnsMatchSchema(t *testing.T) {
	t.Parallel()

	for _, rec := range []Record{decodeFixture(t, sampleFixture), {}} {
		row := Flatten(rec)
		require.Len(t, row, len(TableSchema()))
		for _, name := range TableSchema().Names() {
			_, ok := row[name]
			assert.True(t, ok, "missing column %s", name)
		}
	}
}

func TestFlatten_FullRecord(t *testing.T) {
	t.Parallel()

	row := Flatten(decodeFixture(t, sampleFixture))

	assert.Equal(t, "20260127CF5ECA5D", row["id"])
	assert.Equal(t, int64(215113), row["numerical_id"])
	assert.Equal(t, "2026-01-27T08:00:00Z", row["start_date"])
	assert.Equal(t, false, row["is_live"])
	assert.Equal(t, true, row["venue_neutral"])
	assert.Equal(t, "tennis", row["sport_id"])
	assert.Equal(t, int64(11), row["sport_numerical_id"])
	assert.Equal(t, "ATP", row["league_name"])
	assert.Equal(t, int64(401), row["league_numerical_id"])
	assert.NotContains(t, row, "unmapped_field")
}

func TestFlatten_CompetitorsRoundTrip(t *testing.T) {
	t.Parallel()

	rec := decodeFixture(t, sampleFixture)
	row := Flatten(rec)

	for column, source := range map[string]string{
		"home_competitors_json": "home_competitors",
		"away_competitors_json": "away_competitors",
		"result_json":           "result",
	} {
		text, ok := row[column].(string)
		require.True(t, ok, "%s should be text", column)

		var back any
		require.NoError(t, codec.Decode([]byte(text), &back))
		assert.Equal(t, rec[source], back, column)

		var std any
		require.NoError(t, json.Unmarshal([]byte(text), &std), "%s must be valid JSON", column)
	}
}

func TestFlatten_NullPassthroughStaysNull(t *testing.T) {
	t.Parallel()

	row := Flatten(Record{"id": "f1", "home_competitors": nil})

	assert.Nil(t, row["home_competitors_json"])
	assert.Nil(t, row["away_competitors_json"])
	assert.Nil(t, row["result_json"])
}

func TestFlatten_EmptyCompetitorListIsKept(t *testing.T) {
	t.Parallel()

	row := Flatten(Record{"home_competitors": []any{}})
	assert.Equal(t, "[]", row["home_competitors_json"])
}

func TestFlatten_NestedSportAndLeague(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  Record
	}{
		{name: "missing", rec: Record{}},
		{name: "null", rec: Record{"sport": nil, "league": nil}},
		{name: "empty", rec: Record{"sport": map[string]any{}, "league": map[string]any{}}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			row := Flatten(tc.rec)
			for _, column := range []string{"sport_id", "sport_name", "sport_numerical_id", "league_id", "league_name", "league_numerical_id"} {
				assert.Nil(t, row[column], column)
			}
		})
	}

	t.Run("partial", func(t *testing.T) {
		t.Parallel()
		row := Flatten(Record{"sport": map[string]any{"id": "tennis"}})
		assert.Equal(t, "tennis", row["sport_id"])
		assert.Nil(t, row["sport_name"])
		assert.Nil(t, row["sport_numerical_id"])
	})
}

func TestFlatten_IsPure(t *testing.T) {
	t.Parallel()

	rec := decodeFixture(t, sampleFixture)
	assert.Equal(t, Flatten(rec), Flatten(rec))
}

func TestPage_IsLast(t *testing.T) {
	t.Parallel()

	assert.False(t, Page{Page: 1, TotalPages: 2}.IsLast())
	assert.True(t, Page{Page: 2, TotalPages: 2}.IsLast())
	assert.True(t, Page{Page: 1, TotalPages: 0}.IsLast())
}
