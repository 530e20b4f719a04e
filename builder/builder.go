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

package builder

import (
	"github.com/viant/afs"
	"github.com/viant/gmetric"

	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/cache"
	"dirpx.dev/modalias/resolver"
	"dirpx.dev/modalias/strategy"
)

// Option customizes a builder.
type Option func(*builder)

// WithFS sets the file system used for debug-mode existence checks.
func WithFS(fs afs.Service) Option {
	return func(b *builder) { b.fs = fs }
}

// WithLogger sets the diagnostics sink handed to built resolvers.
func WithLogger(log apis.Logger) Option {
	return func(b *builder) { b.log = log }
}

// WithMetrics sets the gmetric service recording resolution latency.
func WithMetrics(srv *gmetric.Service) Option {
	return func(b *builder) { b.metrics = srv }
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.fs == nil {
		b.fs = afs.New()
	}
	return b
}

// builder holds the collaborators shared by everything it builds.
type builder struct {
	fs      afs.Service
	log     apis.Logger
	metrics *gmetric.Service
}

// BuildCache returns prev when it already matches cfg, so a rebuild that
// only toggles debug mode keeps warm entries. Otherwise a new cache is made.
func (b *builder) BuildCache(cfg apis.Config, prev apis.Cache) apis.Cache {
	if c, ok := prev.(*cache.Cache); ok && c.Fits(cfg.CacheCapacity, cfg.CacheTTL, cfg.CacheStrategy) {
		return c
	}
	return cache.New(cfg.CacheCapacity, cfg.CacheTTL, cfg.CacheStrategy)
}

// BuildResolver composes the alias strategy over table and c. In debug mode
// resolved paths are additionally checked for existence. Counters of prev
// carry over into the new resolver.
func (b *builder) BuildResolver(cfg apis.Config, table apis.Table, c apis.Cache, prev apis.Resolver) apis.Resolver {
	var alias apis.Strategy = strategy.NewAliasStrategy(cache.NewMatcher(c))
	if cfg.Debug {
		alias = strategy.WithExistenceCheck(alias, b.fs, b.log)
	}
	return resolver.New(table, c, []apis.Strategy{alias},
		resolver.WithCounters(resolver.CountersOf(prev)),
		resolver.WithLogger(b.log),
		resolver.WithMetrics(b.metrics),
	)
}
