package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2beens/blogpress/internal/apperr"
)

// Guards are the per-route middlewares a handler attaches when it registers
// its routes. Required rejects anonymous callers, Optional lets them through
// with no identity, Admin additionally applies the admin role gate.
type Guards struct {
	Required   mux.MiddlewareFunc
	Optional   mux.MiddlewareFunc
	Admin      mux.MiddlewareFunc
	LoginLimit mux.MiddlewareFunc
}

func passthrough(next http.Handler) http.Handler {
	return next
}

func deny(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, apperr.Unauthenticated("Not authorized, no token"))
	})
}

// WithDefaults fills unset guards. Missing Required and Admin guards reject
// every request; Optional and LoginLimit pass through.
func (g Guards) WithDefaults() Guards {
	if g.Required == nil {
		g.Required = deny
	}
	if g.Optional == nil {
		g.Optional = passthrough
	}
	if g.Admin == nil {
		g.Admin = deny
	}
	if g.LoginLimit == nil {
		g.LoginLimit = passthrough
	}
	return g
}
