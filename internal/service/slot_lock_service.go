package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotBusy is returned when another request holds the doctor's date for
// longer than the configured wait.
var ErrSlotBusy = apperror.Conflict("Slot is currently being booked, please retry")

const (
	lockRetryMin = 10 * time.Millisecond
	lockRetryMax = 200 * time.Millisecond

	// Interval for cleaning up stale local locks
	lockCleanupInterval = 10 * time.Minute

	// How long a local lock must be unused before cleanup
	lockStaleThreshold = 10 * time.Minute
)

// SlotLocker serializes booking critical sections per (doctor, date).
type SlotLocker interface {
	WithLock(ctx context.Context, doctorID uuid.UUID, date string, fn func(ctx context.Context) error) error
}

func slotLockKey(doctorID uuid.UUID, date string) string {
	return fmt.Sprintf("lock:slot:%s:%s", doctorID, date)
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > lockRetryMax {
		return lockRetryMax
	}
	return d
}

// =============================================================================
// Redis
// =============================================================================

// releaseLockScript deletes the key only when it still holds our token, so an
// expired lock that someone else re-acquired is never released by us.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

type redisSlotLocker struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisSlotLocker(client *redis.Client, log *logrus.Logger, ttl, wait time.Duration) SlotLocker {
	return &redisSlotLocker{
		client: client,
		log:    log,
		ttl:    ttl,
		wait:   wait,
	}
}

func (l *redisSlotLocker) WithLock(ctx context.Context, doctorID uuid.UUID, date string, fn func(ctx context.Context) error) error {
	key := slotLockKey(doctorID, date)
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}
	defer func() {
		// Release even when the request context is already cancelled.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := releaseLockScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.log.Warnf("Failed to release slot lock %s: %+v", key, err)
		}
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

func (l *redisSlotLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.wait)
	backoff := lockRetryMin

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire slot lock: %w", err)
		}
		if ok {
			return nil
		}
		if time.Now().Add(backoff).After(deadline) {
			return ErrSlotBusy
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff)
	}
}

// =============================================================================
// Local (single process)
// =============================================================================

// localLock is a one-slot semaphore so acquisition can give up on a deadline.
type localLock struct {
	ch       chan struct{}
	lastUsed atomic.Int64 // Unix timestamp
	retired  atomic.Bool
}

func (k *localLock) tryLock() bool {
	select {
	case k.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

func (k *localLock) unlock() {
	<-k.ch
}

// LocalSlotLocker keeps one lock per key in memory. It is only correct when a
// single instance serves bookings; the appointments unique index still guards
// multi-instance deployments.
type LocalSlotLocker struct {
	log   *logrus.Logger
	wait  time.Duration
	locks sync.Map // map[string]*localLock

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// NewLocalSlotLocker starts the background cleanup goroutine. Call Stop during shutdown.
func NewLocalSlotLocker(log *logrus.Logger, wait time.Duration) *LocalSlotLocker {
	l := &LocalSlotLocker{
		log:      log,
		wait:     wait,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Stop is safe to call multiple times.
func (l *LocalSlotLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("LocalSlotLocker stopped")
	}
}

func (l *LocalSlotLocker) WithLock(ctx context.Context, doctorID uuid.UUID, date string, fn func(ctx context.Context) error) error {
	lock, err := l.acquire(ctx, slotLockKey(doctorID, date))
	if err != nil {
		return err
	}
	defer lock.unlock()

	return fn(ctx)
}

func (l *LocalSlotLocker) acquire(ctx context.Context, key string) (*localLock, error) {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	for {
		v, _ := l.locks.LoadOrStore(key, &localLock{ch: make(chan struct{}, 1)})
		lock := v.(*localLock)
		lock.lastUsed.Store(time.Now().Unix())

		select {
		case lock.ch <- struct{}{}:
		case <-timer.C:
			return nil, ErrSlotBusy
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		// Cleanup may have dropped this lock from the map while we waited;
		// holding it would not exclude a caller that created a fresh one.
		if lock.retired.Load() {
			lock.unlock()
			continue
		}
		return lock, nil
	}
}

func (l *LocalSlotLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(lockCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanupStale(time.Now())
		}
	}
}

// cleanupStale drops locks unused since before now-lockStaleThreshold. Locks
// currently held are skipped.
func (l *LocalSlotLocker) cleanupStale(now time.Time) int {
	cutoff := now.Add(-lockStaleThreshold).Unix()
	var cleaned int

	l.locks.Range(func(key, value any) bool {
		lock := value.(*localLock)
		if !lock.tryLock() {
			return true
		}
		if lock.lastUsed.Load() < cutoff {
			lock.retired.Store(true)
			l.locks.Delete(key)
			cleaned++
		}
		lock.unlock()
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale slot locks", cleaned)
	}
	return cleaned
}
