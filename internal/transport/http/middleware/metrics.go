package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/celeste-ai/gateway/internal/metrics"
)

// Metrics records request counts and latency by route pattern. It must wrap
// the ServeMux directly so the matched pattern is visible on r afterwards.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrap(w)

		defer func() {
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordRequest(r.Method, route, strconv.Itoa(wrapped.statusCode), time.Since(start).Seconds())
		}()

		next.ServeHTTP(wrapped, r)
	})
}
