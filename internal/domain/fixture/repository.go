package fixture

import "context"

// Source exposes the provider's fixture listing.
type Source interface {
	FetchAllFixtures(ctx context.Context, params ListParams) ([]Record, error)
}
