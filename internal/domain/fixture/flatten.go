package fixture

import (
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/flatten"
)

var tableSchema = warehouse.Schema{
	warehouse.Nullable("id", warehouse.FieldString),
	warehouse.Nullable("numerical_id", warehouse.FieldInteger),
	warehouse.Nullable("game_id", warehouse.FieldString),
	warehouse.Nullable("start_date", warehouse.FieldTimestamp),
	warehouse.Nullable("home_team_display", warehouse.FieldString),
	warehouse.Nullable("away_team_display", warehouse.FieldString),
	warehouse.Nullable("status", warehouse.FieldString),
	warehouse.Nullable("is_live", warehouse.FieldBoolean),
	warehouse.Nullable("season_type", warehouse.FieldString),
	warehouse.Nullable("season_year", warehouse.FieldString),
	warehouse.Nullable("season_week", warehouse.FieldString),
	warehouse.Nullable("venue_name", warehouse.FieldString),
	warehouse.Nullable("venue_location", warehouse.FieldString),
	warehouse.Nullable("venue_neutral", warehouse.FieldBoolean),
	warehouse.Nullable("sport_id", warehouse.FieldString),
	warehouse.Nullable("sport_name", warehouse.FieldString),
	warehouse.Nullable("sport_numerical_id", warehouse.FieldInteger),
	warehouse.Nullable("league_id", warehouse.FieldString),
	warehouse.Nullable("league_name", warehouse.FieldString),
	warehouse.Nullable("league_numerical_id", warehouse.FieldInteger),
	warehouse.Nullable("has_odds", warehouse.FieldBoolean),
	warehouse.Nullable("home_competitors_json", warehouse.FieldString),
	warehouse.Nullable("away_competitors_json", warehouse.FieldString),
	warehouse.Nullable("result_json", warehouse.FieldString),
}

// TableSchema returns the fixtures table layout.
func TableSchema() warehouse.Schema {
	return append(warehouse.Schema(nil), tableSchema...)
}

// Flatten maps one raw fixture onto the fixtures table. Sport and league are
// spread into columns; competitors and result are kept as JSON text.
func Flatten(rec Record) warehouse.Row {
	sport := flatten.Object(rec, "sport")
	league := flatten.Object(rec, "league")

	return warehouse.Row{
		"id":                    flatten.String(rec["id"]),
		"numerical_id":          flatten.Int(rec["numerical_id"]),
		"game_id":               flatten.String(rec["game_id"]),
		"start_date":            flatten.String(rec["start_date"]),
		"home_team_display":     flatten.String(rec["home_team_display"]),
		"away_team_display":     flatten.String(rec["away_team_display"]),
		"status":                flatten.String(rec["status"]),
		"is_live":               flatten.Bool(rec["is_live"]),
		"season_type":           flatten.String(rec["season_type"]),
		"season_year":           flatten.String(rec["season_year"]),
		"season_week":           flatten.String(rec["season_week"]),
		"venue_name":            flatten.String(rec["venue_name"]),
		"venue_location":        flatten.String(rec["venue_location"]),
		"venue_neutral":         flatten.Bool(rec["venue_neutral"]),
		"sport_id":              flatten.String(sport["id"]),
		"sport_name":            flatten.String(sport["name"]),
		"sport_numerical_id":    flatten.Int(sport["numerical_id"]),
		"league_id":             flatten.String(league["id"]),
		"league_name":           flatten.String(league["name"]),
		"league_numerical_id":   flatten.Int(league["numerical_id"]),
		"has_odds":              flatten.Bool(rec["has_odds"]),
		"home_competitors_json": flatten.JSONText(rec["home_competitors"]),
		"away_competitors_json": flatten.JSONText(rec["away_competitors"]),
		"result_json":           flatten.JSONText(rec["result"]),
	}
}
