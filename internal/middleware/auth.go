package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2beens/blogpress/internal/api"
	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/internal/auth"
	"github.com/2beens/blogpress/internal/policy"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type identityResolver interface {
	Resolve(ctx context.Context, authHeader string) auth.Result
}

// Authenticator resolves the caller once per request and stores it in the
// request context for handlers.
type Authenticator struct {
	resolver identityResolver
}

func NewAuthenticator(resolver identityResolver) *Authenticator {
	return &Authenticator{
		resolver: resolver,
	}
}

// Required rejects anonymous and invalid callers with 401.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := a.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		switch res.Kind {
		case auth.Authenticated:
			next.ServeHTTP(w, r.WithContext(withResult(r.Context(), res)))
		case auth.Invalid:
			api.WriteError(w, r, apperr.Unauthenticated("Not authorized, token failed"))
		default:
			api.WriteError(w, r, apperr.Unauthenticated("Not authorized, no token"))
		}
	})
}

// Optional lets anonymous and invalid callers through with no identity.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := a.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if res.Kind == auth.Authenticated {
			r = r.WithContext(withResult(r.Context(), res))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles applies gate to a caller already resolved by Required.
func RequireRoles(gate policy.RoleGate) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := auth.IdentityFrom(r.Context())
			if caller == nil {
				api.WriteError(w, r, apperr.Unauthenticated("Not authorized, no token"))
				return
			}
			if !gate.Permits(caller) {
				api.WriteError(w, r, apperr.Forbidden(fmt.Sprintf("User role %s is not authorized to access this route", caller.Role)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guards bundles the route guards handlers attach to their routes.
func (a *Authenticator) Guards(loginLimit mux.MiddlewareFunc) api.Guards {
	adminGate := RequireRoles(policy.AdminOnly)
	return api.Guards{
		Required: a.Required,
		Optional: a.Optional,
		Admin: func(next http.Handler) http.Handler {
			return a.Required(adminGate(next))
		},
		LoginLimit: loginLimit,
	}
}

func withResult(ctx context.Context, res auth.Result) context.Context {
	ctx = auth.WithIdentity(ctx, res.Identity)
	return auth.WithClaims(ctx, res.Claims)
}
