package reference

import (
	"context"
	"strings"
)

// Record is one raw competition or season object.
type Record = map[string]any

// Document is a full reference payload, e.g. {"generated_at": ..., "competitions": [...]}.
type Document = map[string]any

const (
	KeyCompetitions = "competitions"
	KeySeasons      = "seasons"
)

// Source fetches full reference documents.
type Source interface {
	GetCompetitions(ctx context.Context) (Document, error)
	GetSeasons(ctx context.Context) (Document, error)
}

// GeneratedAt reads the document level timestamp, "" when absent.
func GeneratedAt(doc Document) string {
	value, _ := doc["generated_at"].(string)
	return strings.TrimSpace(value)
}

// Items returns the record list stored under key, skipping non-object entries.
func Items(doc Document, key string) []Record {
	raw, ok := doc[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}
