package auth

import (
	"context"

	"github.com/2beens/blogpress/internal/model"
)

type ctxKey int

const (
	identityCtxKey ctxKey = iota
	claimsCtxKey
)

func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFrom returns the resolved caller, or nil for anonymous requests.
func IdentityFrom(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityCtxKey).(*model.Identity)
	return identity
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

func ClaimsFrom(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsCtxKey).(*Claims)
	return claims
}
