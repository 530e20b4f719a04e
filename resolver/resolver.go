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

package resolver

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"github.com/viant/gmetric"
	"github.com/viant/gmetric/counter"
	"github.com/viant/gmetric/provider"

	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/cache"
)

// MetricName is the gmetric operation recording resolution latency.
const MetricName = "modalias.resolve"

// DefaultOrigin is used when a request carries no origin.
var DefaultOrigin = func() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}()

// Counters tracks resolution statistics. It is shared across rebuilt
// resolvers so totals survive reconfiguration.
type Counters struct {
	resolutions  atomic.Int64
	cacheHits    atomic.Int64
	aliasMatches atomic.Int64
}

// Option customizes a resolver.
type Option func(*chain)

// WithLogger sets the diagnostics sink.
func WithLogger(log apis.Logger) Option {
	return func(c *chain) { c.log = log }
}

// WithCounters shares counters with a previous resolver.
func WithCounters(counters *Counters) Option {
	return func(c *chain) {
		if counters != nil {
			c.counters = counters
		}
	}
}

// WithMetrics records resolution latency on srv.
func WithMetrics(srv *gmetric.Service) Option {
	return func(c *chain) {
		if srv == nil {
			return
		}
		op := srv.LookupOperation(MetricName)
		if op == nil {
			op = srv.MultiOperationCounter("dirpx.dev/modalias/resolver", MetricName, "alias resolution", time.Microsecond, time.Minute, 2, provider.NewBasic())
		}
		c.metric = op
	}
}

// WithDefaultOrigin overrides the origin used for requests without one.
func WithDefaultOrigin(origin string) Option {
	return func(c *chain) {
		if origin != "" {
			c.defaultOrigin = origin
		}
	}
}

// New constructs an apis.Resolver that consults c, then tries strategies in
// order against a single table snapshot. Nil strategies are ignored. A
// request no strategy handles passes through unchanged.
func New(table apis.Table, c apis.Cache, strategies []apis.Strategy, opts ...Option) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	r := &chain{
		table:         table,
		cache:         c,
		strats:        out,
		counters:      &Counters{},
		defaultOrigin: DefaultOrigin,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CountersOf returns the counters of a resolver built by New, or nil.
func CountersOf(res apis.Resolver) *Counters {
	if r, ok := res.(*chain); ok {
		return r.counters
	}
	return nil
}

// chain is an order-preserving resolver over a set of strategies.
type chain struct {
	table         apis.Table
	cache         apis.Cache
	strats        []apis.Strategy
	counters      *Counters
	log           apis.Logger
	metric        *gmetric.Operation
	defaultOrigin string
}

// Resolve follows cache, strategies, pass-through, in that order, and caches
// successful outcomes under the original (request, origin) key.
func (r *chain) Resolve(req apis.Request) (string, error) {
	if req.Origin == "" {
		req.Origin = r.defaultOrigin
	}
	onDone := r.begin()
	r.counters.resolutions.Add(1)

	key := cache.ResolveKey(req.Path, req.Origin)
	if r.cache != nil {
		if v, ok := r.cache.Get(key); ok {
			if path, ok := v.(string); ok {
				r.counters.cacheHits.Add(1)
				onDone(time.Now())
				return path, nil
			}
		}
	}

	var snap apis.Snapshot
	if r.table != nil {
		snap = r.table.Snapshot()
	}
	path := req.Path
	for _, s := range r.strats {
		resolved, handled, err := s.TryResolve(req, snap)
		if err != nil {
			r.logError("alias resolution failed", "request", req.Path, "origin", req.Origin, "error", err)
			onDone(time.Now(), err)
			return "", err
		}
		if handled {
			r.counters.aliasMatches.Add(1)
			path = resolved
			break
		}
	}

	if r.cache != nil {
		r.cache.Put(key, path)
	}
	if r.log != nil {
		r.log.Debug("resolved", "request", req.Path, "origin", req.Origin, "path", path)
	}
	onDone(time.Now())
	return path, nil
}

// ResolveAsync wraps Resolve. The outcome is delivered exactly once on a
// buffered channel; a cancelled ctx yields ctx.Err() instead.
func (r *chain) ResolveAsync(ctx context.Context, req apis.Request) <-chan apis.Result {
	out := make(chan apis.Result, 1)
	go func() {
		defer close(out)
		if err := ctx.Err(); err != nil {
			out <- apis.Result{Err: err}
			return
		}
		path, err := r.Resolve(req)
		out <- apis.Result{Path: path, Err: err}
	}()
	return out
}

// Stats returns the counters together with table and cache sizes.
func (r *chain) Stats() apis.Stats {
	stats := apis.Stats{
		Resolutions:  r.counters.resolutions.Load(),
		CacheHits:    r.counters.cacheHits.Load(),
		AliasMatches: r.counters.aliasMatches.Load(),
	}
	if r.table != nil {
		stats.Aliases = r.table.Len()
	}
	if r.cache != nil {
		stats.CacheSize = r.cache.Len()
		stats.Evictions = r.cache.Evictions()
	}
	return stats
}

func (r *chain) begin() counter.OnDone {
	if r.metric == nil {
		return nopOnDone
	}
	return r.metric.Begin(time.Now())
}

func (r *chain) logError(msg string, kv ...any) {
	if r.log != nil {
		r.log.Error(msg, kv...)
	}
}

func nopOnDone(_ time.Time, _ ...interface{}) int64 {
	return 0
}
