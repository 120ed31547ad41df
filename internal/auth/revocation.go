package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedKeyPrefix = "blogpress||revoked||"

// RevocationList remembers logged out tokens in Redis until they would have
// expired anyway.
type RevocationList struct {
	redisClient *redis.Client
	Now         func() time.Time
}

func NewRevocationList(redisClient *redis.Client) *RevocationList {
	return &RevocationList{
		redisClient: redisClient,
		Now:         time.Now,
	}
}

func (rl *RevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(rl.Now())
	if ttl <= 0 {
		return nil
	}
	if err := rl.redisClient.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}
	return nil
}

func (rl *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := rl.redisClient.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check token %s: %w", tokenID, err)
	}
	return count > 0, nil
}
