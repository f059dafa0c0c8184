package applications

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClaimStore closes the check-then-act window on application
// submission: before touching Postgres, the submitting brand takes a
// short-lived Redis claim on the stall instance. The claim is an
// optimization for fast rejection under contention; the partial unique
// index remains the authoritative guard.
type ClaimStore interface {
	Acquire(ctx context.Context, instanceID, brandID string) (bool, error)
	Release(ctx context.Context, instanceID, brandID string) error
}

const claimKeyPrefix = "exhibae:application:claim:"

// acquireScript takes the claim only when the key is free or already
// held by the same brand (idempotent retry).
var acquireScript = redis.NewScript(`
local key = KEYS[1]
local owner = ARGV[1]
local ttl = tonumber(ARGV[2])

local current = redis.call('GET', key)
if current == false then
    redis.call('SET', key, owner, 'PX', ttl)
    return 1
end
if current == owner then
    redis.call('PEXPIRE', key, ttl)
    return 1
end
return 0
`)

// releaseScript deletes the claim only if the caller still owns it
var releaseScript = redis.NewScript(`
local key = KEYS[1]
local owner = ARGV[1]

if redis.call('GET', key) == owner then
    return redis.call('DEL', key)
end
return 0
`)

type redisClaimStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClaimStore(client *redis.Client, ttl time.Duration) ClaimStore {
	return &redisClaimStore{
		client: client,
		ttl:    ttl,
	}
}

func (c *redisClaimStore) Acquire(ctx context.Context, instanceID, brandID string) (bool, error) {
	key := claimKeyPrefix + instanceID
	result, err := acquireScript.Run(ctx, c.client, []string{key}, brandID, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to acquire application claim: %w", err)
	}
	return result == 1, nil
}

func (c *redisClaimStore) Release(ctx context.Context, instanceID, brandID string) error {
	key := claimKeyPrefix + instanceID
	if err := releaseScript.Run(ctx, c.client, []string{key}, brandID).Err(); err != nil {
		return fmt.Errorf("failed to release application claim: %w", err)
	}
	return nil
}
