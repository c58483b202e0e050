package ports

import (
	"context"
	"time"

	"guidefeed/internal/domain"
)

// ListingsProvider is the upstream guide-data source.
//
// Grid returns one program slice per requested station id, in the same
// order the ids were submitted. An empty slice means "no programs for
// that station in the window".
type ListingsProvider interface {
	Channels(ctx context.Context, lineupID string) ([]domain.LineupChannel, error)
	Grid(ctx context.Context, lineupID string, startUTC, endUTC time.Time, stationIDs []string) ([][]domain.ProgramEntry, error)
}
