package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zsmartex/mlm/config"
)

// Locker keeps a job from overlapping with itself. With Redis configured the lock is shared
// by every daemon and API process, otherwise it only covers the current process.
type Locker struct {
	mutex   sync.Mutex
	running map[string]bool
}

func NewLocker() *Locker {
	return &Locker{running: make(map[string]bool)}
}

func (l *Locker) TryLock(name string, ttl time.Duration) (release func(), ok bool, err error) {
	if config.Redis != nil {
		key := "mlm:jobs:" + name + ":lock"
		owner := uuid.NewString()

		ok, err := config.Redis.AcquireLock(key, owner, ttl)
		if err != nil || !ok {
			return nil, false, err
		}

		return func() {
			if err := config.Redis.ReleaseLock(key, owner); err != nil {
				config.Logger.Errorf("[cron] failed to release lock %s: %v", key, err)
			}
		}, true, nil
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.running[name] {
		return nil, false, nil
	}
	l.running[name] = true

	return func() {
		l.mutex.Lock()
		delete(l.running, name)
		l.mutex.Unlock()
	}, true, nil
}
