package api

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/pkg"
)

const ServerErrorMessage = "Server error"

// WriteError renders err through the error taxonomy. Anything that is not an
// *apperr.Error is treated as internal; internal details never reach the body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("unhandled error", err)
	}

	message := appErr.Message
	if appErr.Kind == apperr.KindInternal {
		log.Errorf("%s %s: %s", r.Method, r.URL.Path, appErr)
		message = ServerErrorMessage
	} else {
		log.Debugf("%s %s: %s", r.Method, r.URL.Path, appErr)
	}

	pkg.WriteJSON(w, appErr.Kind.HTTPStatus(), Envelope{
		Success: false,
		Message: message,
		Errors:  appErr.Fields,
	})
}

func RouteNotFound(w http.ResponseWriter, _ *http.Request) {
	Message(w, http.StatusNotFound, "Route not found")
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	Message(w, http.StatusMethodNotAllowed, "Method not allowed")
}
