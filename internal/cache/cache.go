package cache

import (
	"context"
	"io"
	"time"

	"github.com/darganad/Introduction-to-ComputerSystems/internal/logging"
)

// Cache is the proxy's response cache: a sentinel-headed doubly linked
// list with a byte budget, guarded by the readers-preference discipline
// in sync.go. The zero value is not usable; construct with New.
type Cache struct {
	head      *Entry // sentinel; never holds a response
	remaining int

	locks *locks
}

// New returns an empty cache with the full MaxCacheSize byte budget
// available.
func New() *Cache {
	return &Cache{
		head:      &Entry{},
		remaining: MaxCacheSize,
		locks:     newLocks(),
	}
}

// Lookup searches for url under the readers-preference protocol. On a hit
// it updates the entry's last-access time under lru_mutex and returns the
// entry; on a miss it returns nil. Only the matching entry's last-access
// time is ever touched — entries scanned on the way to a miss or to a
// later match are left alone, so an unsuccessful scan cannot corrupt LRU
// order for entries it merely passed over.
func (c *Cache) Lookup(ctx context.Context, url string) (*Entry, error) {
	if err := c.locks.enterRead(ctx); err != nil {
		return nil, err
	}
	defer c.locks.exitRead()

	for e := c.head.next; e != nil; e = e.next {
		if e.url == url {
			c.locks.lruMutex.Lock()
			e.lastAccess = time.Now()
			c.locks.lruMutex.Unlock()
			return e, nil
		}
	}
	return nil, nil
}

// Serve looks up url and, on a hit, writes its cached response to w
// before releasing the read lock, then reports whether it was a hit. A
// plain Lookup followed by a read of Entry.Response() outside the lock
// would leave a window where an Insert's in-place eviction reuse could
// overwrite that same Entry's fields mid-read; writing to w while still
// holding the lock closes that window.
func (c *Cache) Serve(ctx context.Context, url string, w io.Writer) (hit bool, err error) {
	if err := c.locks.enterRead(ctx); err != nil {
		return false, err
	}
	defer c.locks.exitRead()

	for e := c.head.next; e != nil; e = e.next {
		if e.url == url {
			c.locks.lruMutex.Lock()
			e.lastAccess = time.Now()
			c.locks.lruMutex.Unlock()
			_, err := w.Write(e.response)
			return true, err
		}
	}
	return false, nil
}

// Insert adds a response under url to the cache, evicting least-recently
// used entries as needed. An existing entry for url is removed first, so
// a URL never has more than one entry. A response larger
// than MaxObjectSize is rejected outright — the caller should serve it
// uncached rather than call Insert. Insert is writer-exclusive: no reader
// observes a partially constructed entry or a half-evicted list.
func (c *Cache) Insert(ctx context.Context, url string, response []byte) error {
	if len(response) > MaxObjectSize {
		return ErrObjectTooLarge
	}

	if err := c.locks.enterWrite(ctx); err != nil {
		return err
	}
	defer c.locks.exitWrite()

	for e := c.head.next; e != nil; e = e.next {
		if e.url == url {
			c.remaining += e.Size()
			c.deleteLocked(e)
			break
		}
	}

	size := len(response)
	body := append([]byte(nil), response...)

	if c.remaining >= size {
		e := &Entry{url: url, response: body, lastAccess: time.Now()}
		addFront(c.head, e)
		c.remaining -= size
		return nil
	}

	return c.evictAndInsert(url, body, size)
}

// evictAndInsert evicts whole LRU entries until the final candidate plus
// the freed budget can cover
// size, then overwrite that final victim in place instead of unlinking it
// and allocating a fresh entry — one fewer list mutation than a naive
// evict-then-insert. Caller must already hold write_mutex.
func (c *Cache) evictAndInsert(url string, body []byte, size int) error {
	lru := c.findLRULocked()
	if lru == nil {
		return ErrCacheFull
	}

	for lru.Size()+c.remaining < size {
		c.remaining += lru.Size()
		c.deleteLocked(lru)
		lru = c.findLRULocked()
		if lru == nil {
			return ErrCacheFull
		}
	}

	c.remaining += lru.Size() - size
	lru.url = url
	lru.response = body
	lru.lastAccess = time.Now()
	logging.Debug("cache: evicted entry reused in place", "url", url, "size", size)
	return nil
}

// FindLRU returns the entry with the oldest last-access time, or nil if
// the cache is empty. Exported for diagnostics; Insert uses the
// lock-already-held variant below during eviction.
func (c *Cache) FindLRU(ctx context.Context) (*Entry, error) {
	if err := c.locks.enterWrite(ctx); err != nil {
		return nil, err
	}
	defer c.locks.exitWrite()
	return c.findLRULocked(), nil
}

func (c *Cache) findLRULocked() *Entry {
	var lru *Entry
	for e := c.head.next; e != nil; e = e.next {
		if lru == nil || e.lastAccess.Before(lru.lastAccess) {
			lru = e
		}
	}
	return lru
}

// Delete removes entry from the cache and reclaims its budget. Writer-
// exclusive.
func (c *Cache) Delete(ctx context.Context, entry *Entry) error {
	if err := c.locks.enterWrite(ctx); err != nil {
		return err
	}
	defer c.locks.exitWrite()

	c.remaining += entry.Size()
	c.deleteLocked(entry)
	return nil
}

// deleteLocked unlinks entry from the list. Caller must hold write_mutex
// and must already have reconciled c.remaining.
func (c *Cache) deleteLocked(entry *Entry) {
	unlink(entry)
	entry.response = nil
}

// Remaining returns the number of response bytes still available under
// the cache's budget. The remaining-budget counter is writer-exclusive
// state, so this briefly takes write_mutex like any other writer would.
func (c *Cache) Remaining(ctx context.Context) (int, error) {
	if err := c.locks.enterWrite(ctx); err != nil {
		return 0, err
	}
	defer c.locks.exitWrite()
	return c.remaining, nil
}
