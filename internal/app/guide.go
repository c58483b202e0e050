package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"guidefeed/internal/config"
	"guidefeed/internal/domain"
	"guidefeed/internal/ports"
	"guidefeed/internal/xmltv"
)

// GuideService builds one XMLTV document per call: lineup fetch, then a
// sequential pass over the day windows, each fanning its station batches
// out concurrently. No state is kept between calls, so concurrent
// requests never share a document.
type GuideService struct {
	logger    zerolog.Logger
	listings  ports.ListingsProvider
	assembler *Assembler

	lineupID string
	baseURL  string
	days     int

	// now is swapped in tests to pin the reference instant.
	now func() time.Time
}

func NewGuideService(logger zerolog.Logger, listings ports.ListingsProvider, cfg config.Config) (*GuideService, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	return &GuideService{
		logger:    logger,
		listings:  listings,
		assembler: NewAssembler(cfg.Profile, loc, cfg.TitleFallback, cfg.BaseURL),
		lineupID:  cfg.LineupID,
		baseURL:   cfg.BaseURL,
		days:      ClampDays(cfg.Days),
		now:       time.Now,
	}, nil
}

// WithNow overrides the reference clock.
func (s *GuideService) WithNow(now func() time.Time) *GuideService {
	if now != nil {
		s.now = now
	}
	return s
}

// BuildDocument runs the whole pipeline and returns the finished
// in-memory document. Any fetch failure aborts the build; no partial
// document is ever returned.
func (s *GuideService) BuildDocument(ctx context.Context) (*xmltv.TV, error) {
	started := time.Now()

	channels, err := s.listings.Channels(ctx, s.lineupID)
	if err != nil {
		return nil, fmt.Errorf("fetch lineup %s: %w", s.lineupID, err)
	}
	s.logger.Info().Int("channels", len(channels)).Str("lineup", s.lineupID).Msg("lineup fetched")

	ids := BuildChannelIDMap(channels, s.assembler.profile.IDPrefix)

	doc := &xmltv.TV{
		SourceInfoURL:     s.baseURL,
		SourceInfoName:    "tvlistings",
		GeneratorInfoName: "guidefeed",
		GeneratorInfoURL:  "https://github.com/guidefeed/guidefeed",
	}
	for _, ch := range channels {
		doc.Channels = append(doc.Channels, s.assembler.ChannelElement(ch, ids[ch.StationID]))
	}

	stationIDs := make([]string, len(channels))
	for i, ch := range channels {
		stationIDs[i] = ch.StationID
	}

	// Reference instant captured once so day windows can't drift while
	// the fetch sequence runs.
	now := s.now()

	for offset := 0; offset < s.days; offset++ {
		window := DayWindowFor(now, offset)
		grid, err := s.fetchDay(ctx, window, stationIDs)
		if err != nil {
			return nil, fmt.Errorf("fetch day %d: %w", offset, err)
		}
		if len(grid) != len(channels) {
			return nil, fmt.Errorf("%w: day %d grid has %d entries for %d channels",
				ports.ErrInternalAssembly, offset, len(grid), len(channels))
		}

		for i, ch := range channels {
			for _, entry := range grid[i] {
				programme, err := s.assembler.ProgrammeElement(entry, ids[ch.StationID])
				if err != nil {
					return nil, err
				}
				doc.Programmes = append(doc.Programmes, programme)
			}
		}
		s.logger.Debug().Int("day", offset).Int("programmes", len(doc.Programmes)).Msg("day window assembled")
	}

	s.logger.Info().
		Int("channels", len(doc.Channels)).
		Int("programmes", len(doc.Programmes)).
		Dur("took", time.Since(started)).
		Msg("guide built")
	return doc, nil
}

// fetchDay issues one grid request per station batch, all in flight at
// once, and reassembles the responses in batch order, never completion
// order. A single failed batch fails the whole window.
func (s *GuideService) fetchDay(ctx context.Context, window domain.DayWindow, stationIDs []string) ([][]domain.ProgramEntry, error) {
	batches := BatchStationIDs(stationIDs, stationBatchSize)
	results := make([][][]domain.ProgramEntry, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			programs, err := s.listings.Grid(gctx, s.lineupID, window.StartUTC, window.EndUTC, batch)
			if err != nil {
				return err
			}
			results[i] = programs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	grid := make([][]domain.ProgramEntry, 0, len(stationIDs))
	for _, r := range results {
		grid = append(grid, r...)
	}
	return grid, nil
}
