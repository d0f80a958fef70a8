package lock

import (
	"sync"

	"malldepot/config"
)

var (
	sharedLock *RunLock
	sharedOnce sync.Once
)

// Shared returns the process-wide run lock. The API trigger and the cron
// trigger must contend on the same instance or fail-fast breaks.
func Shared() *RunLock {
	sharedOnce.Do(func() {
		sharedLock = NewRunLock(config.RedisClient, "", 0)
	})
	return sharedLock
}
