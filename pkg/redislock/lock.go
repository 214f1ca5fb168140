package redislock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func New(rdb redis.UniversalClient, ttl time.Duration) *Locker {
	return &Locker{rdb: rdb, ttl: ttl, prefix: "lock:"}
}

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

// TryLock returns ok=false when another holder owns key. The returned unlock
// only deletes the key while it still carries this holder's token.
func (l *Locker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	token := uuid.NewString()
	fullKey := l.prefix + key

	ok, err := l.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	unlock := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// a failed release is left to the TTL
		_ = unlockScript.Run(ctx, l.rdb, []string{fullKey}, token).Err()
	}
	return unlock, true, nil
}

func (l *Locker) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}
