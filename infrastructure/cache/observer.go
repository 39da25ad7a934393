package cache

import (
	"context"
	"sync"
)

// Observer is one consumer's view of a sequence of queries against a
// QueryCache. Each Load supersedes the previous one: a completion that is not
// the latest issued load never overwrites the observer's state.
type Observer[T any] struct {
	mu     sync.Mutex
	cache  *QueryCache
	fetch  func(ctx context.Context, key Key) (T, error)
	seq    uint64
	key    Key
	state  Result[T]
	closed bool
}

func NewObserver[T any](c *QueryCache, fetch func(ctx context.Context, key Key) (T, error)) *Observer[T] {
	return &Observer[T]{
		cache: c,
		fetch: fetch,
		state: Result[T]{Status: StatusLoading},
	}
}

// Load issues a query for key and returns the observer state once it
// completes, was superseded, or ctx ended.
func (o *Observer[T]) Load(ctx context.Context, key Key) Result[T] {
	o.mu.Lock()
	if o.closed {
		defer o.mu.Unlock()
		return o.state
	}
	o.seq++
	seq := o.seq
	o.key = key
	o.state.Status = StatusLoading
	o.state.Err = nil
	o.mu.Unlock()

	res := Fetch(ctx, o.cache, key, func(ctx context.Context) (T, error) {
		return o.fetch(ctx, key)
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || seq != o.seq || ctx.Err() != nil {
		return o.state
	}
	switch res.Status {
	case StatusSuccess:
		o.state = res
	case StatusError:
		// Keep the last known data: this key's if the cache has any,
		// otherwise whatever the observer showed before.
		if res.HasData {
			o.state.Data = res.Data
			o.state.HasData = true
		}
		o.state.Status = StatusError
		o.state.Err = res.Err
	}
	return o.state
}

// State returns the current projection without issuing a query.
func (o *Observer[T]) State() Result[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Key returns the key of the latest issued load.
func (o *Observer[T]) Key() Key {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.key
}

// Close stops every in-flight and future load from touching the state.
func (o *Observer[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
}
