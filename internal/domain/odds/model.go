package odds

import "context"

// MaxSportsbooksPerRequest is the provider's cap on sportsbook filters in one
// odds request.
const MaxSportsbooksPerRequest = 5

// Record is one raw odds line: a price for one selection on one market of a
// fixture from one sportsbook.
type Record = map[string]any

// Request selects odds for a single fixture.
type Request struct {
	FixtureID   string   `validate:"required"`
	Sportsbooks []string `validate:"required,min=1,max=5,dive,required"`
	Markets     []string `validate:"dive,required"`
	IsMain      *bool
}

// Source fetches odds for one fixture. Items are provider fixture objects
// each carrying a nested "odds" list.
type Source interface {
	GetOdds(ctx context.Context, req Request) ([]Record, error)
	GetHistoricalOdds(ctx context.Context, req Request) ([]Record, error)
}

// ChunkSportsbooks slices a sportsbook list into groups that fit one request.
func ChunkSportsbooks(books []string) [][]string {
	out := make([][]string, 0, (len(books)+MaxSportsbooksPerRequest-1)/MaxSportsbooksPerRequest)
	for start := 0; start < len(books); start += MaxSportsbooksPerRequest {
		end := start + MaxSportsbooksPerRequest
		if end > len(books) {
			end = len(books)
		}
		out = append(out, books[start:end])
	}
	return out
}

// ExpandItems turns provider fixture items into flat odds records. Items
// without an "odds" list are taken to be odds records already. Nested lines
// inherit the parent fixture id when they do not carry one.
func ExpandItems(items []Record) []Record {
	out := make([]Record, 0, len(items))
	for _, item := range items {
		nested, ok := item["odds"].([]any)
		if !ok {
			if _, hasKey := item["odds"]; !hasKey {
				out = append(out, item)
			}
			continue
		}
		for _, raw := range nested {
			line, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if line["fixture_id"] == nil && item["id"] != nil {
				copied := make(Record, len(line)+1)
				for key, value := range line {
					copied[key] = value
				}
				copied["fixture_id"] = item["id"]
				line = copied
			}
			out = append(out, line)
		}
	}
	return out
}
