package odds

import (
	"github.com/riskibarqy/sportsdata-ingest/internal/domain/warehouse"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/flatten"
)

var tableSchema = warehouse.Schema{
	warehouse.Nullable("id", warehouse.FieldString),
	warehouse.Nullable("sportsbook", warehouse.FieldString),
	warehouse.Nullable("market", warehouse.FieldString),
	warehouse.Nullable("over_under", warehouse.FieldString),
	warehouse.Nullable("is_main", warehouse.FieldBoolean),
	warehouse.Nullable("selection", warehouse.FieldString),
	warehouse.Nullable("normalized_selection", warehouse.FieldString),
	warehouse.Nullable("market_id", warehouse.FieldString),
	warehouse.Nullable("selection_line", warehouse.FieldString),
	warehouse.Nullable("player_id", warehouse.FieldString),
	warehouse.Nullable("team_id", warehouse.FieldString),
	warehouse.Nullable("fixture_id", warehouse.FieldString),
	warehouse.Nullable("opening_line_price", warehouse.FieldFloat),
	warehouse.Nullable("opening_line_points", warehouse.FieldFloat),
	warehouse.Nullable("closing_line_price", warehouse.FieldFloat),
	warehouse.Nullable("closing_line_points", warehouse.FieldFloat),
}

// TableSchema returns the odds table layout.
func TableSchema() warehouse.Schema {
	return append(warehouse.Schema(nil), tableSchema...)
}

// Flatten maps one odds line onto the odds table. The opening (olv) and
// closing (clv) line values are spread into price/points pairs, each side
// independently null when its object is missing.
func Flatten(rec Record) warehouse.Row {
	olv := flatten.Object(rec, "olv")
	clv := flatten.Object(rec, "clv")

	return warehouse.Row{
		"id":                   flatten.String(rec["id"]),
		"sportsbook":           flatten.String(rec["sportsbook"]),
		"market":               flatten.String(rec["market"]),
		"over_under":           flatten.String(rec["name"]),
		"is_main":              flatten.Bool(rec["is_main"]),
		"selection":            flatten.String(rec["selection"]),
		"normalized_selection": flatten.String(rec["normalized_selection"]),
		"market_id":            flatten.String(rec["market_id"]),
		"selection_line":       flatten.String(rec["selection_line"]),
		"player_id":            flatten.String(rec["player_id"]),
		"team_id":              flatten.String(rec["team_id"]),
		"fixture_id":           flatten.String(rec["fixture_id"]),
		"opening_line_price":   flatten.Float(olv["price"]),
		"opening_line_points":  flatten.Float(olv["points"]),
		"closing_line_price":   flatten.Float(clv["price"]),
		"closing_line_points":  flatten.Float(clv["points"]),
	}
}
