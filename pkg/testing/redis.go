package testing

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// GetRedisClientAndCtx connects to the redis at addr and fails the test when
// it does not answer a ping. The client is closed on test cleanup.
func GetRedisClientAndCtx(t *testing.T, addr, password string) (context.Context, *redis.Client) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	t.Logf("using redis at: [%s]", addr)
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0, // use default DB
	})
	t.Cleanup(func() { _ = rdb.Close() })

	var pingRes string
	require.Eventually(t, func() bool {
		res, err := rdb.Ping(ctx).Result()
		pingRes = res
		return err == nil
	}, 8*time.Second, 200*time.Millisecond)
	t.Logf("redis ping res: %s", pingRes)

	return ctx, rdb
}
