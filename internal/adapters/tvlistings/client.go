// Package tvlistings is the HTTP adapter for the listings provider's
// lineup and grid endpoints.
package tvlistings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"guidefeed/internal/domain"
	"guidefeed/internal/ports"
)

// Per-call ceiling; expiry is reported as ports.ErrUpstreamUnavailable.
const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func New(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// WithEndpoint overrides the base URL (tests point this at httptest servers).
func (c *Client) WithEndpoint(baseURL string) *Client {
	if strings.TrimSpace(baseURL) != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// WithTimeout overrides the per-call timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.client.Timeout = d
	}
	return c
}

// BaseURL exposes the provider root, used to resolve relative logo paths.
func (c *Client) BaseURL() string { return c.baseURL }

// Channels fetches the channel list for a lineup. The body must be a
// JSON array of channel records, each carrying a station id.
func (c *Client) Channels(ctx context.Context, lineupID string) ([]domain.LineupChannel, error) {
	u := fmt.Sprintf("%s/lineup/%s/channels", c.baseURL, url.PathEscape(lineupID))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var channels []domain.LineupChannel
	if err := json.Unmarshal(body, &channels); err != nil {
		return nil, fmt.Errorf("%w: lineup channels: %v", ports.ErrMalformedResponse, err)
	}
	for i, ch := range channels {
		if ch.StationID == "" {
			return nil, fmt.Errorf("%w: lineup channel %d has no stationId", ports.ErrMalformedResponse, i)
		}
	}
	return channels, nil
}

// Grid fetches programs for one batch of stations inside a query window.
// The body must be a JSON array with one entry per requested station, in
// request order; a null or non-array entry counts as "no programs", but
// an array entry that fails to decode is malformed. Responses shorter
// than the request are padded with empty slices.
func (c *Client) Grid(ctx context.Context, lineupID string, startUTC, endUTC time.Time, stationIDs []string) ([][]domain.ProgramEntry, error) {
	u := fmt.Sprintf("%s/lineup/%s/grid/%s/%s/%s",
		c.baseURL,
		url.PathEscape(lineupID),
		startUTC.UTC().Format(time.RFC3339),
		endUTC.UTC().Format(time.RFC3339),
		strings.Join(stationIDs, ","))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: grid root is not an array: %v", ports.ErrMalformedResponse, err)
	}
	if len(raw) > len(stationIDs) {
		return nil, fmt.Errorf("%w: grid returned %d entries for %d stations", ports.ErrMalformedResponse, len(raw), len(stationIDs))
	}

	result := make([][]domain.ProgramEntry, len(stationIDs))
	for i := range result {
		result[i] = []domain.ProgramEntry{}
		if i >= len(raw) {
			continue
		}
		slot := bytes.TrimSpace(raw[i])
		if len(slot) == 0 || string(slot) == "null" || slot[0] != '[' {
			// Null or non-array slot: no programs for this station.
			c.logger.Debug().Int("slot", i).Msg("grid slot not an array, treating as empty")
			continue
		}
		// The slot is an array; entries that don't decode mean the
		// provider changed shape, not an empty schedule.
		var programs []domain.ProgramEntry
		if err := json.Unmarshal(slot, &programs); err != nil {
			return nil, fmt.Errorf("%w: grid slot %d: %v", ports.ErrMalformedResponse, i, err)
		}
		result[i] = programs
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "guidefeed")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ports.ErrUpstreamUnavailable, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ports.ErrUpstreamUnavailable, u, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ports.ErrUpstreamUnavailable, u, err)
	}
	return body, nil
}
