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

package config

import (
	"time"

	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/cache/strategy"
)

const (
	// DefaultHotReload keeps the alias table in sync with its source.
	DefaultHotReload = true
	// DefaultCacheTTL is how long a cached resolution stays valid.
	DefaultCacheTTL = 5000 * time.Millisecond
	// DefaultCacheCapacity bounds the resolution cache.
	DefaultCacheCapacity = 1000
	// DefaultCacheStrategy evicts the oldest-inserted entry first.
	DefaultCacheStrategy = strategy.FIFO
	// DefaultReloadInterval is how often the configuration source is polled.
	DefaultReloadInterval = time.Second
)

// DefaultFileNames are the configuration files looked up in each candidate
// directory, in order.
func DefaultFileNames() []string {
	return []string{"package.json", "modalias.yaml", "modalias.yml"}
}

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = DefaultCacheCapacity
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.ReloadInterval <= 0 {
		cfg.ReloadInterval = DefaultReloadInterval
	}
	if len(cfg.FileNames) == 0 {
		cfg.FileNames = DefaultFileNames()
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		HotReload:      DefaultHotReload,
		CacheTTL:       DefaultCacheTTL,
		CacheCapacity:  DefaultCacheCapacity,
		CacheStrategy:  DefaultCacheStrategy,
		ReloadInterval: DefaultReloadInterval,
		FileNames:      DefaultFileNames(),
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithBase sets where the configuration source is looked up.
func WithBase(base string) Option {
	return func(c *apis.Config) {
		c.Base = base
	}
}

// WithDebug enables verbose diagnostics.
func WithDebug(debug bool) Option {
	return func(c *apis.Config) {
		c.Debug = debug
	}
}

// WithHotReload toggles the configuration watcher.
func WithHotReload(enabled bool) Option {
	return func(c *apis.Config) {
		c.HotReload = enabled
	}
}

// WithCacheTTL sets the cache TTL. A non-positive value resets to the default.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *apis.Config) {
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		c.CacheTTL = ttl
	}
}

// WithCacheCapacity bounds the cache. A non-positive value resets to the default.
func WithCacheCapacity(capacity int) Option {
	return func(c *apis.Config) {
		if capacity <= 0 {
			capacity = DefaultCacheCapacity
		}
		c.CacheCapacity = capacity
	}
}

// WithCacheStrategy selects the cache eviction policy.
func WithCacheStrategy(s strategy.Strategy) Option {
	return func(c *apis.Config) {
		c.CacheStrategy = s
	}
}

// WithReloadInterval sets the polling period of the watcher.
func WithReloadInterval(interval time.Duration) Option {
	return func(c *apis.Config) {
		if interval <= 0 {
			interval = DefaultReloadInterval
		}
		c.ReloadInterval = interval
	}
}

// WithFileNames replaces the configuration file names looked up.
func WithFileNames(names ...string) Option {
	return func(c *apis.Config) {
		c.FileNames = append([]string(nil), names...)
	}
}
