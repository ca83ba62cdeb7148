package rest

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// requestIDHeader carries the per-request id in responses so clients
// can quote it in bug reports.
const requestIDHeader = "X-Request-ID"

// statusRecorder captures the response status code for logging and
// metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler with request id assignment, access
// logging, and Prometheus accounting. The route label is the pattern,
// not the raw path, to keep metric cardinality bounded.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)
		elapsed := time.Since(start)

		s.metrics.observe(route, r.Method, rec.status, elapsed)
		log.Printf("%s %s %d %s id=%s", r.Method, r.URL.Path, rec.status, elapsed.Round(time.Millisecond), id)
	}
}
