package reference

import (
	"testing"

	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCompetitions = `{
  "generated_at": "2026-01-20T10:11:12+00:00",
  "competitions": [
    {"id": "sr:competition:2567", "name": "Australian Open Men Singles", "type": "singles", "gender": "men",
     "category": {"id": "sr:category:3", "name": "ATP"}, "level": "grand_slam"},
    {"id": "sr:competition:2569", "name": "Australian Open Qualification", "parent_id": "sr:competition:2567"},
    "not-an-object"
  ]
}`

func TestFlattenCompetition(t *testing.T) {
	t.Parallel()

	var doc Document
	require.NoError(t, codec.Decode([]byte(sampleCompetitions), &doc))
	items := Items(doc, KeyCompetitions)
	require.Len(t, items, 2)

	generatedAt := GeneratedAt(doc)
	first := FlattenCompetition(items[0], generatedAt)
	assert.Equal(t, "sr:competition:2567", first["id"])
	assert.Equal(t, "sr:category:3", first["category_id"])
	assert.Equal(t, "ATP", first["category_name"])
	assert.Nil(t, first["parent_id"])
	assert.Equal(t, "2026-01-20T10:11:12+00:00", first["generated_at"])

	second := FlattenCompetition(items[1], generatedAt)
	assert.Nil(t, second["category_id"])
	assert.Nil(t, second["category_name"])
	assert.Equal(t, "sr:competition:2567", second["parent_id"])
	assertColumns(t, second, CompetitionSchema())
}

func TestFlattenSeason(t *testing.T) {
	t.Parallel()

	rec := Record{
		"id":             "sr:season:118603",
		"name":           "Australian Open Men Singles 2026",
		"start_date":     "2026-01-18",
		"end_date":       "2026-02-01",
		"year":           "2026",
		"competition_id": "sr:competition:2567",
		"generated_at":   "ignored",
	}

	row := FlattenSeason(rec, "")
	assertColumns(t, row, SeasonSchema())
	assert.Equal(t, "2026-01-18", row["start_date"])
	assert.Nil(t, row["generated_at"], "generated_at comes from the caller, not the record")

	stamped := FlattenSeason(rec, "2026-01-20T10:11:12+00:00")
	assert.Equal(t, "2026-01-20T10:11:12+00:00", stamped["generated_at"])
}

func TestSchemas_RequireID(t *testing.T) {
	t.Parallel()

	for _, schema := range []warehouse.Schema{CompetitionSchema(), SeasonSchema()} {
		assert.Equal(t, warehouse.Required("id", warehouse.FieldString), schema[0])
	}
}

func TestItems_MissingKey(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Items(Document{}, KeySeasons))
	assert.Equal(t, "", GeneratedAt(Document{}))
}

func assertColumns(t *testing.T, row warehouse.Row, schema warehouse.Schema) {
	t.Helper()
	require.Len(t, row, len(schema))
	for _, name := range schema.Names() {
		_, ok := row[name]
		assert.True(t, ok, "missing column %s", name)
	}
}
