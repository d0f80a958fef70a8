package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrHeld is returned when the lock is already taken: a run is in progress
// and the caller must fail fast rather than queue behind it.
var ErrHeld = errors.New("sync already in progress")

// RunLock serializes orchestrated runs against one store connection. With
// redis configured the lock spans processes via SET NX PX; without it a
// process-local mutex covers the single-binary deployment. The TTL guards
// against a crashed holder wedging the lock forever.
type RunLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration

	mu    sync.Mutex
	local bool
	token string
}

func NewRunLock(client *redis.Client, key string, ttl time.Duration) *RunLock {
	if key == "" {
		key = "malldepot:sync:lock"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RunLock{client: client, key: key, ttl: ttl}
}

// Acquire takes the lock without blocking. Returns ErrHeld when another run
// holds it.
func (l *RunLock) Acquire(ctx context.Context) error {
	if l.client == nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.local {
			return ErrHeld
		}
		l.local = true
		return nil
	}

	token := time.Now().UTC().Format(time.RFC3339Nano)
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrHeld
	}
	l.mu.Lock()
	l.token = token
	l.mu.Unlock()
	return nil
}

// Release frees the lock. Only the holder's token is deleted so an expired
// lock taken over by another run is left alone.
func (l *RunLock) Release(ctx context.Context) {
	if l.client == nil {
		l.mu.Lock()
		l.local = false
		l.mu.Unlock()
		return
	}

	l.mu.Lock()
	token := l.token
	l.token = ""
	l.mu.Unlock()
	if token == "" {
		return
	}
	const script = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`
	l.client.Eval(ctx, script, []string{l.key}, token)
}
