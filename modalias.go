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

package modalias

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/viant/afs"

	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/builder"
	"dirpx.dev/modalias/cache"
	"dirpx.dev/modalias/config"
	"dirpx.dev/modalias/events"
	"dirpx.dev/modalias/logging"
	"dirpx.dev/modalias/registry"
	"dirpx.dev/modalias/searchpath"
	"dirpx.dev/modalias/source"
	"dirpx.dev/modalias/watcher"
)

var (
	// ErrNilCache is returned when a builder returns a nil cache.
	ErrNilCache = errors.New("modalias: builder returned nil cache")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("modalias: builder returned nil resolver")
)

// state is an immutable snapshot of the engine's rebuildable layers.
type state struct {
	cfg   apis.Config
	bld   apis.Builder
	cache apis.Cache
	res   apis.Resolver
	// pres marks a resolver set through SetResolver; it is not rebuilt.
	pres bool
}

// Engine rewrites alias-prefixed module requests into filesystem paths.
type Engine struct {
	// buildMu serializes writers of st.
	buildMu sync.Mutex
	st      atomic.Pointer[state]

	fs      afs.Service
	bus     *events.Bus
	log     *logging.Logger
	table   apis.Table
	paths   *searchpath.Manager
	watcher *watcher.Watcher
}

// New constructs an Engine with an empty alias table. Use Init to also
// load the configuration source.
func New(opts ...Option) *Engine {
	o := newOptions(opts)
	cfg := config.NewConfig(o.config...)

	e := &Engine{fs: o.fs, bus: events.New()}
	for _, sub := range o.handlers {
		e.bus.On(sub.kind, sub.handler)
	}
	e.log = logging.New(o.logOutput, e.bus)
	e.bus.SetLogger(e.log)
	e.log.SetDebug(cfg.Debug)
	e.table = registry.New(currentCache{e}, e.bus)
	e.paths = searchpath.New(o.host, searchpath.WithEmitter(e.bus), searchpath.WithLogger(e.log))

	notifier := o.notifier
	if notifier == nil {
		notifier = watcher.NewPollingNotifier(e.fs, cfg.ReloadInterval)
	}
	e.watcher = watcher.New(e.table,
		watcher.WithFS(e.fs),
		watcher.WithNotifier(notifier),
		watcher.WithLogger(e.log),
		watcher.WithEmitter(e.bus),
		watcher.WithOnLoad(e.addDirectories),
	)

	bld := o.builder
	if bld == nil {
		bld = builder.New(builder.WithFS(e.fs), builder.WithLogger(e.log), builder.WithMetrics(o.metrics))
	}
	e.st.Store(build(&state{cfg: cfg, bld: bld}, e.table))
	return e
}

// Init constructs an Engine, loads aliases and search directories from the
// first configuration source found and, when hot reload is on, watches it
// until ctx is done or the engine is closed. It fails with
// *apis.ConfigNotFoundError when no source exists.
func Init(ctx context.Context, opts ...Option) (*Engine, error) {
	e := New(opts...)
	if err := e.load(ctx); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) load(ctx context.Context) error {
	cfg := e.Config()
	URL, err := source.Locate(ctx, e.fs, cfg.Base, cfg.FileNames)
	if err != nil {
		e.log.Error("configuration not found", "error", err)
		return err
	}
	src, err := source.Load(ctx, e.fs, URL)
	if err != nil {
		e.log.Error("failed to load configuration", "source", URL, "error", err)
		return err
	}
	if err := e.table.AddMany(src.Aliases); err != nil {
		return err
	}
	e.addDirectories(src)
	if cfg.HotReload {
		if err := e.watcher.Watch(ctx, URL); err != nil {
			return err
		}
	}
	e.log.Info("initialized", "source", URL, "aliases", len(src.Aliases), "directories", len(src.Directories))
	e.bus.Emit(apis.Event{
		Kind:   apis.EventInitialized,
		Fields: map[string]any{"source": URL, "aliases": len(src.Aliases), "directories": len(src.Directories)},
	})
	return nil
}

func (e *Engine) addDirectories(src *source.Source) {
	for _, dir := range src.Directories {
		if _, err := e.paths.Add(dir); err != nil {
			e.log.Warn("invalid search directory", "source", src.URL, "path", dir, "error", err)
		}
	}
}

// AddPath adds a module search directory. It reports false when the path
// was already added.
func (e *Engine) AddPath(path string) (bool, error) {
	return e.paths.Add(path)
}

// AddAlias registers or overwrites one alias.
func (e *Engine) AddAlias(name string, target apis.Target) error {
	return e.table.Add(name, target)
}

// AddAliases registers every alias of mapping, or none when any is invalid.
func (e *Engine) AddAliases(mapping map[string]apis.Target) error {
	return e.table.AddMany(mapping)
}

// IsPathMatchesAlias reports whether path is covered by alias.
func (e *Engine) IsPathMatchesAlias(path, alias string) bool {
	return cache.NewMatcher(e.st.Load().cache).Matches(path, alias)
}

// Resolve rewrites request as seen from origin. An empty origin means the
// process working directory.
func (e *Engine) Resolve(request, origin string) (string, error) {
	return e.st.Load().res.Resolve(apis.Request{Path: request, Origin: origin})
}

// ResolveAsync is the non-blocking form of Resolve.
func (e *Engine) ResolveAsync(ctx context.Context, request, origin string) <-chan apis.Result {
	return e.st.Load().res.ResolveAsync(ctx, apis.Request{Path: request, Origin: origin})
}

// Stats returns resolution counters and current sizes.
func (e *Engine) Stats() apis.Stats {
	stats := e.st.Load().res.Stats()
	stats.SearchPaths = e.paths.Len()
	return stats
}

// Reset stops watching every source, removes added search paths from the
// host units, clears the alias table and invalidates the cache.
func (e *Engine) Reset() {
	if err := e.watcher.Close(); err != nil {
		e.log.Warn("failed to stop watching", "error", err)
	}
	e.paths.Reset()
	e.table.Reset()
	e.st.Load().cache.InvalidateAll()
	e.log.Info("reset")
	e.bus.Emit(apis.Event{Kind: apis.EventReset})
}

// SetDebugMode toggles debug logging and existence checks of resolved
// paths. The resolver is rebuilt unless it is pinned.
func (e *Engine) SetDebugMode(debug bool) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	old := e.st.Load()
	cfg := old.cfg
	cfg.Debug = debug
	e.log.SetDebug(debug)
	e.st.Store(build(&state{cfg: cfg, bld: old.bld, cache: old.cache, res: old.res, pres: old.pres}, e.table))
}

// On subscribes handler to kind and returns an id for Off.
func (e *Engine) On(kind apis.EventKind, handler apis.Handler) string {
	return e.bus.On(kind, handler)
}

// Off cancels a subscription.
func (e *Engine) Off(id string) bool {
	return e.bus.Off(id)
}

// Aliases returns the registered aliases, longest name first.
func (e *Engine) Aliases() []apis.Entry {
	return e.table.Snapshot().Entries()
}

// SearchPaths returns the added search paths, most recent first.
func (e *Engine) SearchPaths() []string {
	return e.paths.Paths()
}

// Sources returns the watched configuration sources.
func (e *Engine) Sources() []string {
	return e.watcher.Sources()
}

// Reload re-reads URL into the alias table now.
func (e *Engine) Reload(ctx context.Context, URL string) error {
	return e.watcher.Reload(ctx, URL)
}

// Config returns the current configuration.
func (e *Engine) Config() apis.Config {
	return e.st.Load().cfg
}

// Resolver returns the current resolver.
func (e *Engine) Resolver() apis.Resolver {
	return e.st.Load().res
}

// SetResolver installs res and pins it: later rebuilds keep it until
// UnpinResolver is called. A nil res is ignored.
func (e *Engine) SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	old := e.st.Load()
	e.st.Store(&state{cfg: old.cfg, bld: old.bld, cache: old.cache, res: res, pres: true})
}

// IsResolverPinned reports whether the resolver was set through SetResolver.
func (e *Engine) IsResolverPinned() bool {
	return e.st.Load().pres
}

// UnpinResolver rebuilds the resolver from the builder again.
func (e *Engine) UnpinResolver() {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	old := e.st.Load()
	e.st.Store(build(&state{cfg: old.cfg, bld: old.bld, cache: old.cache, res: old.res}, e.table))
}

// Builder returns the current builder.
func (e *Engine) Builder() apis.Builder {
	return e.st.Load().bld
}

// SetBuilder replaces the builder and rebuilds the cache and the resolver
// unless it is pinned. A nil b is ignored.
func (e *Engine) SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	old := e.st.Load()
	e.st.Store(build(&state{cfg: old.cfg, bld: b, cache: old.cache, res: old.res, pres: old.pres}, e.table))
}

// Close stops every watch.
func (e *Engine) Close() error {
	return e.watcher.Close()
}

// build completes s with a cache and, unless pinned, a resolver from s.bld.
// It panics when the builder returns nil.
func build(s *state, table apis.Table) *state {
	s.cache = s.bld.BuildCache(s.cfg, s.cache)
	if s.cache == nil {
		panic(ErrNilCache)
	}
	if !s.pres {
		s.res = s.bld.BuildResolver(s.cfg, table, s.cache, s.res)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
	return s
}

// currentCache forwards to the cache of the published state so the table
// invalidates whichever cache is current.
type currentCache struct{ e *Engine }

func (c currentCache) get() apis.Cache {
	if s := c.e.st.Load(); s != nil {
		return s.cache
	}
	return nil
}

func (c currentCache) Get(key string) (any, bool) {
	if cc := c.get(); cc != nil {
		return cc.Get(key)
	}
	return nil, false
}

func (c currentCache) Put(key string, value any) {
	if cc := c.get(); cc != nil {
		cc.Put(key, value)
	}
}

func (c currentCache) InvalidateAll() {
	if cc := c.get(); cc != nil {
		cc.InvalidateAll()
	}
}

func (c currentCache) Len() int {
	if cc := c.get(); cc != nil {
		return cc.Len()
	}
	return 0
}

func (c currentCache) Evictions() int64 {
	if cc := c.get(); cc != nil {
		return cc.Evictions()
	}
	return 0
}
