package api

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginRateKeyPrefix = "rate:login:"
	loginLockKeyPrefix = "lock:login:"
	loginFailKeyPrefix = "lock:login:fail:"
)

// loginGuardStore is the slice of the Redis API the guard needs.
type loginGuardStore interface {
	redisRateCounter
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// loginGuard throttles login attempts per IP and username and locks an
// account after repeated failures.
type loginGuard struct {
	redis         loginGuardStore
	ratePerHour   int
	lockThreshold int
	lockTTL       time.Duration
}

func newLoginGuard(redisClient loginGuardStore, ratePerHour, lockThreshold int, lockTTL time.Duration) *loginGuard {
	return &loginGuard{
		redis:         redisClient,
		ratePerHour:   ratePerHour,
		lockThreshold: lockThreshold,
		lockTTL:       lockTTL,
	}
}

// allow reports whether a login attempt may proceed. A Redis outage fails
// open so an infrastructure hiccup does not lock everyone out.
func (g *loginGuard) allow(ctx context.Context, ip, username string) bool {
	username = normalizeUsername(username)

	rateKey := loginRateKeyPrefix + ip + ":" + username + ":" + time.Now().UTC().Format("2006010215")
	count, err := incrWithTTL(ctx, g.redis, rateKey, time.Hour)
	if err == nil && count > int64(g.ratePerHour) {
		return false
	}

	if ttl, err := g.redis.TTL(ctx, loginLockKeyPrefix+username).Result(); err == nil && ttl > 0 {
		return false
	}
	return true
}

// registerFailure bumps the failure counter and locks the account once the
// threshold is reached.
func (g *loginGuard) registerFailure(ctx context.Context, username string) {
	username = normalizeUsername(username)

	failKey := loginFailKeyPrefix + username
	count, err := g.redis.Incr(ctx, failKey).Result()
	if err != nil {
		return
	}
	if count == 1 {
		_ = g.redis.Expire(ctx, failKey, g.lockTTL).Err()
	}
	if count >= int64(g.lockThreshold) {
		_ = g.redis.Set(ctx, loginLockKeyPrefix+username, "1", g.lockTTL).Err()
	}
}

// clearFailures resets the counter after a successful login.
func (g *loginGuard) clearFailures(ctx context.Context, username string) {
	_ = g.redis.Del(ctx, loginFailKeyPrefix+normalizeUsername(username)).Err()
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
