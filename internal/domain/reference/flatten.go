package reference

import (
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/flatten"
)

var competitionSchema = warehouse.Schema{
	warehouse.Required("id", warehouse.FieldString),
	warehouse.Nullable("name", warehouse.FieldString),
	warehouse.Nullable("type", warehouse.FieldString),
	warehouse.Nullable("gender", warehouse.FieldString),
	warehouse.Nullable("category_id", warehouse.FieldString),
	warehouse.Nullable("category_name", warehouse.FieldString),
	warehouse.Nullable("level", warehouse.FieldString),
	warehouse.Nullable("parent_id", warehouse.FieldString),
	warehouse.Nullable("generated_at", warehouse.FieldTimestamp),
}

var seasonSchema = warehouse.Schema{
	warehouse.Required("id", warehouse.FieldString),
	warehouse.Nullable("name", warehouse.FieldString),
	warehouse.Nullable("start_date", warehouse.FieldDate),
	warehouse.Nullable("end_date", warehouse.FieldDate),
	warehouse.Nullable("year", warehouse.FieldString),
	warehouse.Nullable("competition_id", warehouse.FieldString),
	warehouse.Nullable("generated_at", warehouse.FieldTimestamp),
}

func CompetitionSchema() warehouse.Schema {
	return append(warehouse.Schema(nil), competitionSchema...)
}

func SeasonSchema() warehouse.Schema {
	return append(warehouse.Schema(nil), seasonSchema...)
}

// FlattenCompetition maps one competition; generatedAt is stamped by the
// caller and is not read from the record.
func FlattenCompetition(rec Record, generatedAt string) warehouse.Row {
	category := flatten.Object(rec, "category")

	return warehouse.Row{
		"id":            flatten.String(rec["id"]),
		"name":          flatten.String(rec["name"]),
		"type":          flatten.String(rec["type"]),
		"gender":        flatten.String(rec["gender"]),
		"category_id":   flatten.String(category["id"]),
		"category_name": flatten.String(category["name"]),
		"level":         flatten.String(rec["level"]),
		"parent_id":     flatten.String(rec["parent_id"]),
		"generated_at":  stamp(generatedAt),
	}
}

func FlattenSeason(rec Record, generatedAt string) warehouse.Row {
	return warehouse.Row{
		"id":             flatten.String(rec["id"]),
		"name":           flatten.String(rec["name"]),
		"start_date":     flatten.String(rec["start_date"]),
		"end_date":       flatten.String(rec["end_date"]),
		"year":           flatten.String(rec["year"]),
		"competition_id": flatten.String(rec["competition_id"]),
		"generated_at":   stamp(generatedAt),
	}
}

func stamp(generatedAt string) any {
	if generatedAt == "" {
		return nil
	}
	return generatedAt
}
