package warehouse

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const (
	ReasonInvalid  = "invalid"
	ReasonRequired = "required"
)

// ValidateRow checks one row against schema the way a strict streaming
// insert would: unknown columns, nulls in REQUIRED columns and values whose
// Go type does not fit the column type are each reported once.
func ValidateRow(schema Schema, index int, row Row) []RowError {
	var out []RowError

	known := make(map[string]Column, len(schema))
	for _, column := range schema {
		known[column.Name] = column
	}

	extra := make([]string, 0)
	for key := range row {
		if _, ok := known[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		out = append(out, RowError{Index: index, Location: key, Reason: ReasonInvalid, Message: "no such field"})
	}

	for _, column := range schema {
		value := row[column.Name]
		if value == nil {
			if column.Mode == ModeRequired {
				out = append(out, RowError{Index: index, Location: column.Name, Reason: ReasonRequired, Message: "missing required field"})
			}
			continue
		}
		if !fits(column.Type, value) {
			out = append(out, RowError{
				Index:    index,
				Location: column.Name,
				Reason:   ReasonInvalid,
				Message:  fmt.Sprintf("cannot convert %T to %s", value, column.Type),
			})
		}
	}
	return out
}

func fits(fieldType FieldType, value any) bool {
	switch fieldType {
	case FieldString:
		_, ok := value.(string)
		return ok
	case FieldInteger:
		switch typed := value.(type) {
		case int, int32, int64:
			return true
		case json.Number:
			_, err := typed.Int64()
			return err == nil
		}
		return false
	case FieldFloat:
		switch typed := value.(type) {
		case float32, float64, int, int32, int64:
			return true
		case json.Number:
			_, err := typed.Float64()
			return err == nil
		}
		return false
	case FieldBoolean:
		_, ok := value.(bool)
		return ok
	case FieldTimestamp:
		switch value.(type) {
		case string, time.Time:
			return true
		}
		return false
	case FieldDate:
		switch typed := value.(type) {
		case time.Time:
			return true
		case string:
			_, err := time.Parse(time.DateOnly, typed)
			return err == nil
		}
		return false
	default:
		return false
	}
}
