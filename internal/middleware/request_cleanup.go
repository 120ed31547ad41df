package middleware

import (
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// bodies larger than this are closed without being read to the end
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest discards what the handler left unread of the request
// body so the connection can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil || r.Body == http.NoBody {
				return
			}
			if _, err := io.CopyN(io.Discard, r.Body, maxDrainBytes); err != nil && err != io.EOF {
				log.Tracef("drain request body %s: %s", r.URL.Path, err)
			}
			if err := r.Body.Close(); err != nil {
				log.Tracef("close request body %s: %s", r.URL.Path, err)
			}
		})
	}
}
