package middleware

import (
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogpress/internal/api"
	"github.com/2beens/blogpress/internal/telemetry/metrics"
)

// PanicRecovery turns a handler panic into the generic 500 response.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					log.Errorf("http: panic serving %s %s: %v\n%s", req.Method, req.URL.Path, r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleRequestPanic.Inc()
					}
					api.Message(respWriter, http.StatusInternalServerError, api.ServerErrorMessage)
				}
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
