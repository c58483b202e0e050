package httpapi

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidefeed/internal/adapters/tvlistings"
	"guidefeed/internal/app"
	"guidefeed/internal/config"
	"guidefeed/internal/xmltv"
)

// newTestServer wires a real pipeline against a fake upstream handler.
func newTestServer(t *testing.T, upstream http.HandlerFunc) *Server {
	t.Helper()
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.LineupID = "USA-TEST0001"
	cfg.Timezone = "UTC"
	cfg.Days = 1
	cfg.BaseURL = ts.URL

	listings := tvlistings.New(ts.URL, zerolog.Nop())
	guide, err := app.NewGuideService(zerolog.Nop(), listings, cfg)
	require.NoError(t, err)
	guide.WithNow(func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	})

	return NewServer(zerolog.Nop(), guide, cfg)
}

func healthyUpstream(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/channels"):
			_, _ = w.Write([]byte(`[
				{"stationId":"1001","channelNumber":"2","stationCallSign":"WABC","logo":"logos/wabc.png"},
				{"stationId":"1002","channelNumber":"4","stationCallSign":"WNBC"}
			]`))
		case strings.Contains(r.URL.Path, "/grid/"):
			_, _ = w.Write([]byte(`[
				[{"title":"News","startTime":"2024-03-01T05:00:00Z","runTime":60,"type":"N","flags":["HD","New"]}],
				[{"title":"Movie Night","startTime":"2024-03-01T06:00:00Z","runTime":120,"type":"M"}]
			]`))
		default:
			http.NotFound(w, r)
		}
	}
}

func TestGuideEndpoint_FullDocument(t *testing.T) {
	srv := newTestServer(t, healthyUpstream(t))

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/xmltv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=UTF-8", rec.Header().Get("Content-Type"))

	disposition := rec.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="tvguide-`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.xml"`), disposition)

	rt := rec.Header().Get("X-Response-Time")
	assert.True(t, strings.HasSuffix(rt, "ms"), "X-Response-Time %q", rt)

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))

	// Round-trip: parsing the output reproduces what was fed in.
	var doc xmltv.TV
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Channels, 2)
	require.Len(t, doc.Programmes, 2)

	ids := map[string]bool{}
	for _, ch := range doc.Channels {
		ids[ch.ID] = true
	}
	for _, p := range doc.Programmes {
		assert.True(t, ids[p.Channel], "programme channel %q not declared", p.Channel)
	}

	news := doc.Programmes[0]
	assert.Equal(t, "News", news.Title.Text)
	assert.Equal(t, "20240301050000 +0000", news.Start)
	assert.Equal(t, "20240301060000 +0000", news.Stop)
	require.Len(t, news.Categories, 1)
	assert.Equal(t, "news", news.Categories[0].Text)
	require.NotNil(t, news.Video)
	assert.Equal(t, "HDTV", news.Video.Quality)
	assert.NotNil(t, news.New)
	assert.Nil(t, news.Audio)
}

func TestGuideEndpoint_UpstreamFailureIsGeneric500(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "secret upstream detail", http.StatusBadGateway)
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/xmltv", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"guide generation failed"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.NotEmpty(t, rec.Header().Get("X-Response-Time"))
}

func TestGuideEndpoint_ClientDisconnectAbandonsResponse(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/xmltv", nil).WithContext(ctx))

	// The build was cut off by the caller; nothing gets written back.
	assert.Zero(t, rec.Body.Len())
	assert.Equal(t, http.StatusOK, rec.Code, "recorder default, no status was written")
}

func TestGuideEndpoint_RequestTimeoutIs504(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}).WithRequestTimeout(30 * time.Millisecond)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/xmltv", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<tv", "no partial document written")
}

func TestGuideEndpoint_FailedBatchProducesNoPartialBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/channels") {
			_, _ = w.Write([]byte(`[{"stationId":"1","channelNumber":"2","stationCallSign":"A"}]`))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/xmltv", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<tv", "no partial document written")
}

func TestUnknownPathIs404(t *testing.T) {
	srv := newTestServer(t, healthyUpstream(t))

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Response-Time"))
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t, healthyUpstream(t))

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "version")
}
