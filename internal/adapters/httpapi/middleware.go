package httpapi

import (
	"net/http"
	"strconv"
	"time"
)

// responseTime attaches an X-Response-Time header (elapsed milliseconds)
// to every response, including 404s and errors. The value is fixed at
// the moment the status line is written.
func responseTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&responseTimeWriter{ResponseWriter: w, started: time.Now()}, r)
	})
}

type responseTimeWriter struct {
	http.ResponseWriter
	started     time.Time
	wroteHeader bool
}

func (w *responseTimeWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		elapsed := time.Since(w.started).Milliseconds()
		w.Header().Set("X-Response-Time", strconv.FormatInt(elapsed, 10)+"ms")
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTimeWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
