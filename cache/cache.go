/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/cache/strategy"
)

const (
	// DefaultTTL is how long an entry stays valid.
	DefaultTTL = 5000 * time.Millisecond
	// DefaultCapacity bounds the number of entries.
	DefaultCapacity = 1000
)

// Option customizes a Cache at construction.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New constructs a Cache bounded by capacity whose entries expire after ttl.
// Non-positive values fall back to the defaults.
func New(capacity int, ttl time.Duration, policy strategy.Strategy, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{capacity: capacity, ttl: ttl, policy: policy, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.store = c.newStore()
	return c
}

// Cache is a bounded, TTL-expiring memo safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	store     *simplelru.LRU[string, entry]
	capacity  int
	ttl       time.Duration
	policy    strategy.Strategy
	now       func() time.Time
	evictions atomic.Int64
}

type entry struct {
	value     any
	createdAt time.Time
}

// Ensure Cache implements apis.Cache.
var _ apis.Cache = (*Cache)(nil)

func (c *Cache) newStore() *simplelru.LRU[string, entry] {
	store, err := simplelru.NewLRU[string, entry](c.capacity, func(string, entry) {
		c.evictions.Add(1)
	})
	if err != nil {
		// NewLRU only fails for a non-positive size, which New rules out.
		panic(err)
	}
	return store
}

// Get returns the value for key. Stale entries miss but are not removed;
// they age out through eviction or the next Put.
func (c *Cache) Get(key string) (any, bool) {
	if c.policy == strategy.None {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var (
		e  entry
		ok bool
	)
	if c.policy == strategy.LRU {
		e, ok = c.store.Get(key)
	} else {
		e, ok = c.store.Peek(key)
	}
	if !ok || c.now().Sub(e.createdAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

// Put stores value under key. Overwriting refreshes both age and insertion
// position. When full, the single oldest entry is evicted.
func (c *Cache) Put(key string, value any) {
	if c.policy == strategy.None {
		return
	}
	c.mu.Lock()
	c.store.Add(key, entry{value: value, createdAt: c.now()})
	c.mu.Unlock()
}

// InvalidateAll drops every entry. Dropped entries do not count as evictions.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.store = c.newStore()
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}

// Evictions returns how many entries were evicted for capacity.
func (c *Cache) Evictions() int64 {
	return c.evictions.Load()
}

// Contains reports whether key is stored, regardless of age.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Contains(key)
}

// Fits reports whether the cache was built with the given settings.
// Non-positive values compare against the defaults, as in New.
func (c *Cache) Fits(capacity int, ttl time.Duration, policy strategy.Strategy) bool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.capacity == capacity && c.ttl == ttl && c.policy == policy
}
