package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogpress/internal/model"
	"github.com/2beens/blogpress/internal/telemetry/metrics"
	"github.com/2beens/blogpress/internal/telemetry/tracing"
	"github.com/2beens/blogpress/internal/users"
)

//go:generate mockgen -source=$GOFILE -destination=resolver_mocks_test.go -package=auth_test

type userLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type revocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type ResultKind int

const (
	Anonymous ResultKind = iota
	Authenticated
	Invalid
)

func (k ResultKind) String() string {
	switch k {
	case Authenticated:
		return "authenticated"
	case Invalid:
		return "invalid"
	default:
		return "anonymous"
	}
}

// Result is the outcome of resolving the caller of a request. Identity and
// Claims are set only for Authenticated.
type Result struct {
	Kind     ResultKind
	Identity *model.Identity
	Claims   *Claims
}

type Resolver struct {
	tokens         *Tokens
	users          userLookup
	revocations    revocationChecker
	cache          *freecache.Cache
	cacheTTL       time.Duration
	metricsManager *metrics.Manager
}

func NewResolver(
	tokens *Tokens,
	users userLookup,
	revocations revocationChecker,
	cacheSizeMB int,
	cacheTTL time.Duration,
	metricsManager *metrics.Manager,
) *Resolver {
	return &Resolver{
		tokens:         tokens,
		users:          users,
		revocations:    revocations,
		cache:          freecache.NewCache(cacheSizeMB * 1024 * 1024),
		cacheTTL:       cacheTTL,
		metricsManager: metricsManager,
	}
}

// Resolve turns an Authorization header value into a Result. It never fails:
// anything wrong with the token or its user yields Invalid.
func (r *Resolver) Resolve(ctx context.Context, authHeader string) Result {
	if strings.TrimSpace(authHeader) == "" {
		return Result{Kind: Anonymous}
	}

	scheme, tokenString, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
		return Result{Kind: Invalid}
	}

	ctx, span := tracing.StartSpan(ctx, "auth.resolve")
	defer span.End()

	claims, err := r.tokens.Verify(strings.TrimSpace(tokenString))
	if err != nil {
		log.Tracef("resolve identity: %s", err)
		return Result{Kind: Invalid}
	}

	revoked, err := r.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Errorf("resolve identity, revocation check: %s", err)
		return Result{Kind: Invalid}
	}
	if revoked {
		return Result{Kind: Invalid}
	}

	identity, err := r.identity(ctx, claims.IdentityID())
	if err != nil {
		if !errors.Is(err, users.ErrUserNotFound) {
			log.Errorf("resolve identity %s: %s", claims.IdentityID(), err)
		}
		return Result{Kind: Invalid}
	}

	return Result{Kind: Authenticated, Identity: identity, Claims: claims}
}

func (r *Resolver) identity(ctx context.Context, id string) (*model.Identity, error) {
	key := []byte(id)
	if cached, err := r.cache.Get(key); err == nil {
		identity := &model.Identity{}
		if err := json.Unmarshal(cached, identity); err == nil {
			r.metricsManager.CounterIdentityCache.WithLabelValues("hit").Inc()
			return identity, nil
		}
		log.Errorf("unmarshal cached identity %s: %s", id, err)
	}
	r.metricsManager.CounterIdentityCache.WithLabelValues("miss").Inc()

	user, err := r.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	identity := user.Identity()
	if identityBytes, err := json.Marshal(identity); err == nil {
		if err := r.cache.Set(key, identityBytes, int(r.cacheTTL.Seconds())); err != nil {
			log.Errorf("cache identity %s: %s", id, err)
		}
	}
	return identity, nil
}

// Forget drops a cached identity, used after a role change or deletion.
func (r *Resolver) Forget(id string) {
	r.cache.Del([]byte(id))
}
