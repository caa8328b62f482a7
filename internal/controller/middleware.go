package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/threadline/wa-marketing-backend/pkg/logx"
	"github.com/threadline/wa-marketing-backend/pkg/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Observability tags every request with an id and feeds the access log and
// the request counters.
func Observability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		lat := time.Since(start).Seconds()
		metrics.APIRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		metrics.APIRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(lat)

		logx.L().Infow("http_access",
			"rid", rid,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", lat,
			"remote", r.RemoteAddr,
		)
	})
}
