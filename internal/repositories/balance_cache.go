package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
)

// setIfNewer writes balance and version to the hash at KEYS[1] unless it
// already holds the same or a newer version. ARGV: balance, version, ttl ms.
var setIfNewer = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('HSET', KEYS[1], 'balance', ARGV[1], 'version', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

// BalanceCacheRepository caches wallet balances in Redis for read endpoints.
// Mutations never read from it. Entries carry the wallet version so an older
// balance never replaces a newer one.
type BalanceCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached balances
}

// NewBalanceCacheRepository creates a new repository instance with the given TTL
func NewBalanceCacheRepository(client *redis.Client, expiration time.Duration) *BalanceCacheRepository {
	return &BalanceCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func balanceKey(userID int64) string {
	return fmt.Sprintf("wallet_balance:%d", userID)
}

// GetBalance returns a cached balance; found is false on a cache miss.
func (r *BalanceCacheRepository) GetBalance(ctx context.Context, userID int64) (balance int64, found bool, err error) {
	key := balanceKey(userID)

	val, err := r.client.HGet(ctx, key, "balance").Result()
	if errors.Is(err, redis.Nil) {
		logger.Log.Infow("key", key, "result", "miss")
		return 0, false, nil
	}
	if err != nil {
		logger.Log.Infow("key", key, "error", err)
		return 0, false, err
	}

	balance, err = strconv.ParseInt(val, 10, 64)
	logger.Log.Infow(
		"key", key,
		"value", val,
		"result", balance,
		"error", err,
	)
	if err != nil {
		return 0, false, err
	}
	return balance, true, nil
}

// SetBalance caches a balance with the configured expiration unless the
// cached entry is already at version or newer.
func (r *BalanceCacheRepository) SetBalance(ctx context.Context, userID, balance, version int64) error {
	key := balanceKey(userID)
	stored, err := setIfNewer.Run(ctx, r.client, []string{key}, balance, version, r.exp.Milliseconds()).Int()

	logger.Log.Infow(
		"key", key,
		"balance", balance,
		"version", version,
		"stored", stored == 1,
		"error", err,
	)

	return err
}

// Invalidate removes a cached balance.
func (r *BalanceCacheRepository) Invalidate(ctx context.Context, userID int64) error {
	key := balanceKey(userID)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow("key", key, "result", "deleted", "error", err)

	return err
}
