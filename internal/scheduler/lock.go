package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker hands out a per-job lease so that one replica runs a job per tick.
type Locker interface {
	// Acquire returns ok=false when another holder owns the lease. The
	// returned release func is nil unless ok.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

const keyPrefix = "ncip:job-lock:"

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

type RedisLocker struct {
	rdb *redis.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.rdb, []string{keyPrefix + key}, token).Err()
	}
	return release, true, nil
}

// LocalLocker serializes runs inside one process only. Used when Redis is
// disabled. Leases expire after their ttl like the Redis keys do.
type LocalLocker struct {
	mu   sync.Mutex
	now  func() time.Time
	seq  uint64
	held map[string]localLease
}

type localLease struct {
	token   uint64
	expires time.Time // zero never expires
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{now: time.Now, held: map[string]localLease{}}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	if _, busy := l.held[key]; busy {
		return nil, false, nil
	}

	l.seq++
	lease := localLease{token: l.seq}
	if ttl > 0 {
		lease.expires = now.Add(ttl)
	}
	l.held[key] = lease

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, ok := l.held[key]; ok && cur.token == lease.token {
			delete(l.held, key)
		}
	}, true, nil
}

func (l *LocalLocker) prune(now time.Time) {
	for k, lease := range l.held {
		if !lease.expires.IsZero() && !now.Before(lease.expires) {
			delete(l.held, k)
		}
	}
}
