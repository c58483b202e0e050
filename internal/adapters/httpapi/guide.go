package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"guidefeed/internal/httpjson"
	"guidefeed/internal/xmltv"
)

// handleGuide builds the full multi-day document in memory, serializes
// it once and returns it atomically. On any failure the client gets a
// generic 500 and the detail stays in the log; a partially built
// document is never written.
func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	doc, err := s.guide.BuildDocument(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			// Request was cancelled or timed out mid-generation;
			// nothing left to write.
			logger.Warn().Err(err).Msg("guide build abandoned")
			return
		}
		logger.Error().Err(err).Msg("guide build failed")
		httpjson.WriteError(w, http.StatusInternalServerError, "guide generation failed")
		return
	}

	var buf bytes.Buffer
	if err := xmltv.Encode(&buf, doc, s.cfg.Profile.Encoding); err != nil {
		logger.Error().Err(err).Msg("guide serialization failed")
		httpjson.WriteError(w, http.StatusInternalServerError, "guide generation failed")
		return
	}

	filename := fmt.Sprintf("tvguide-%s.xml", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/xml; charset="+s.cfg.Profile.Encoding)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}
