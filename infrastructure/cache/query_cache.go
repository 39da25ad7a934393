package cache

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Collection names a family of cached queries that is invalidated together.
type Collection string

const (
	Users Collection = "users"
	Roles Collection = "roles"
)

type Kind string

const (
	KindPaginated Kind = "paginated"
	KindMap       Kind = "map"
)

// Key identifies one cached query.
type Key struct {
	Collection Collection
	Kind       Kind
	Page       int
	Search     string
}

// PageKey keys one page of collection c filtered by search.
func PageKey(c Collection, page int, search string) Key {
	return Key{Collection: c, Kind: KindPaginated, Page: page, Search: search}
}

// LookupKey keys the complete id→item map of collection c.
func LookupKey(c Collection) Key {
	return Key{Collection: c, Kind: KindMap}
}

func (k Key) String() string {
	return string(k.Collection) + "/" + string(k.Kind) + "/" + strconv.Itoa(k.Page) + "/" + url.QueryEscape(k.Search)
}

type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the projection of one query. Data holds the last known value
// even when Status is error.
type Result[T any] struct {
	Status  Status
	Data    T
	HasData bool
	Err     error
}

type entry struct {
	data      any
	hasData   bool
	err       error
	fetchedAt time.Time
	usedAt    time.Time
	stale     bool
	gen       uint64
}

// QueryCache is the process-wide query cache. Only fetch completions and
// Invalidate write to it.
type QueryCache struct {
	mu          sync.Mutex
	entries     map[Key]*entry
	generations map[Collection]uint64
	staleAfter  map[Kind]time.Duration
	gcAfter     time.Duration
	group       singleflight.Group
	now         func() time.Time
}

func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries:     make(map[Key]*entry),
		generations: make(map[Collection]uint64),
		staleAfter:  make(map[Kind]time.Duration),
		now:         time.Now,
	}
}

// SetStaleTime makes entries of kind k go stale d after they were fetched.
// Zero means they stay fresh until invalidated.
func (c *QueryCache) SetStaleTime(k Kind, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staleAfter[k] = d
}

// SetGCTime makes Sweep drop entries nobody has read for d. Zero keeps
// entries forever.
func (c *QueryCache) SetGCTime(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gcAfter = d
}

// Sweep removes entries idle for longer than the GC time and returns how
// many were dropped. A dropped key is simply fetched again on its next read.
func (c *QueryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gcAfter <= 0 {
		return 0
	}
	cutoff := c.now().Add(-c.gcAfter)
	n := 0
	for k, e := range c.entries {
		if e.usedAt.Before(cutoff) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len is the number of cached entries.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Invalidate marks every entry of collection col stale, whatever its page,
// search or kind. Fetches already in flight will store stale results.
func (c *QueryCache) Invalidate(col Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[col]++
	for k, e := range c.entries {
		if k.Collection == col {
			e.stale = true
		}
	}
}

// Peek returns the last known data for key without fetching.
func (c *QueryCache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.hasData {
		return nil, false
	}
	e.usedAt = c.now()
	return e.data, true
}

// Fresh reports whether key would be served without a network call.
func (c *QueryCache) Fresh(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.freshLocked(key)
	return ok
}

func (c *QueryCache) freshLocked(key Key) (any, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e.usedAt = c.now()
	if !e.hasData || e.err != nil || e.stale {
		return nil, false
	}
	if d := c.staleAfter[key.Kind]; d > 0 && c.now().Sub(e.fetchedAt) >= d {
		return nil, false
	}
	return e.data, true
}

// begin returns fresh data, or the generation a new fetch must be stamped with.
func (c *QueryCache) begin(key Key) (any, bool, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.freshLocked(key)
	return data, ok, c.generations[key.Collection]
}

func (c *QueryCache) store(key Key, gen uint64, data any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.usedAt = c.now()
	if e.hasData && gen < e.gen {
		// A fetch from before an invalidation lost the race to a newer one.
		return
	}
	if err != nil {
		e.err = err
		return
	}
	e.gen = gen
	e.data = data
	e.hasData = true
	e.err = nil
	e.fetchedAt = c.now()
	e.stale = gen != c.generations[key.Collection]
}

// Fetch serves key from the cache or runs fn. Concurrent callers with the same
// key share one call to fn. fn runs detached from ctx so that one caller
// giving up does not fail the others; a caller whose ctx ends gets a loading
// result carrying the last known data.
func Fetch[T any](ctx context.Context, c *QueryCache, key Key, fn func(ctx context.Context) (T, error)) Result[T] {
	data, ok, gen := c.begin(key)
	if ok {
		if v, ok := data.(T); ok {
			return Result[T]{Status: StatusSuccess, Data: v, HasData: true}
		}
	}

	// The generation is part of the flight key: reads issued after an
	// invalidation never join a flight that started before it.
	flight := key.String() + "#" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(flight, func() (any, error) {
		v, err := fn(context.WithoutCancel(ctx))
		c.store(key, gen, v, err)
		return v, err
	})

	select {
	case <-ctx.Done():
		res := lastKnown[T](c, key)
		res.Status = StatusLoading
		res.Err = ctx.Err()
		return res
	case r := <-ch:
		if r.Err != nil {
			res := lastKnown[T](c, key)
			res.Status = StatusError
			res.Err = r.Err
			return res
		}
		v, ok := r.Val.(T)
		if !ok {
			return Result[T]{Status: StatusError, Err: fmt.Errorf("cache: unexpected value type %T for %s", r.Val, key)}
		}
		return Result[T]{Status: StatusSuccess, Data: v, HasData: true}
	}
}

func lastKnown[T any](c *QueryCache, key Key) Result[T] {
	var res Result[T]
	if data, ok := c.Peek(key); ok {
		if v, ok := data.(T); ok {
			res.Data = v
			res.HasData = true
		}
	}
	return res
}
