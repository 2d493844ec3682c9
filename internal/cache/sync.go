package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// locks is the three-primitive readers-preference discipline: write_mutex,
// count_mutex, and lru_mutex. write_mutex is a weighted semaphore of
// weight 1 — the direct Go realization of a binary P()/V() semaphore —
// held by a writer for its entire critical section and by the first
// reader in / last reader out. count_mutex guards the reader count and
// lru_mutex guards entries' last-access times; both are ordinary mutexes.
// A weight-1 semaphore and a sync.Mutex are equivalent for a short
// section like these, and sync.Mutex is the more direct fit when there's
// no need for Acquire's context-cancellation or TryAcquire semantics.
type locks struct {
	writeMutex *semaphore.Weighted

	countMutex   sync.Mutex
	readersCount int

	lruMutex sync.Mutex
}

func newLocks() *locks {
	return &locks{writeMutex: semaphore.NewWeighted(1)}
}

// enterRead implements the readers-preference entry protocol: the first
// reader to arrive blocks out writers by acquiring write_mutex on the
// readers' behalf; subsequent readers proceed freely while any reader is
// present. count_mutex is held across that acquire, so readers arriving
// while a writer is active wait until the first reader gets write_mutex.
func (l *locks) enterRead(ctx context.Context) error {
	l.countMutex.Lock()
	defer l.countMutex.Unlock()

	l.readersCount++
	if l.readersCount == 1 {
		if err := l.writeMutex.Acquire(ctx, 1); err != nil {
			l.readersCount--
			return err
		}
	}
	return nil
}

// exitRead releases this reader's claim, releasing write_mutex once the
// last reader has left.
func (l *locks) exitRead() {
	l.countMutex.Lock()
	l.readersCount--
	last := l.readersCount == 0
	l.countMutex.Unlock()

	if last {
		l.writeMutex.Release(1)
	}
}

// enterWrite acquires exclusive access for an insert/evict critical
// section.
func (l *locks) enterWrite(ctx context.Context) error {
	return l.writeMutex.Acquire(ctx, 1)
}

// exitWrite releases exclusive access acquired by enterWrite.
func (l *locks) exitWrite() {
	l.writeMutex.Release(1)
}
