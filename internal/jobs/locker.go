package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

var errLockHeld = errors.New("jobs: lock held by another instance")

const lockPrefix = "questlearn:jobs:lock:"

// unlockScript deletes the key only when it still carries our token.
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type redisLocker struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

// NewRedisLocker returns a gocron locker backed by SET NX. The ttl bounds how
// long a crashed holder can block other replicas.
func NewRedisLocker(rdb goredis.UniversalClient, ttl time.Duration) gocron.Locker {
	if ttl <= 0 {
		ttl = defaultJobTimeout
	}
	return &redisLocker{rdb: rdb, ttl: ttl}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, lockPrefix+key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errLockHeld
	}
	return &redisLock{rdb: l.rdb, key: lockPrefix + key, token: token}, nil
}

type redisLock struct {
	rdb   goredis.UniversalClient
	key   string
	token string
}

func (l *redisLock) Unlock(ctx context.Context) error {
	return unlockScript.Run(ctx, l.rdb, []string{l.key}, l.token).Err()
}
