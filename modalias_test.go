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

package modalias_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/modalias"
	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/config"
	"dirpx.dev/modalias/searchpath"
)

// ---------------------- Test doubles ----------------------

type fakeNotifier struct {
	mu        sync.Mutex
	callbacks map[string]func(context.Context)
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{callbacks: map[string]func(context.Context){}}
}

func (f *fakeNotifier) Watch(_ context.Context, URL string, onChange func(context.Context)) (io.Closer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks[URL] = onChange
	return closerFunc(func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.callbacks, URL)
		return nil
	}), nil
}

func (f *fakeNotifier) fire(URL string) bool {
	f.mu.Lock()
	cb := f.callbacks[URL]
	f.mu.Unlock()
	if cb == nil {
		return false
	}
	cb(context.Background())
	return true
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

// fixedResolver answers every request with the same path.
type fixedResolver struct{ path string }

func (r fixedResolver) Resolve(apis.Request) (string, error) { return r.path, nil }
func (r fixedResolver) ResolveAsync(context.Context, apis.Request) <-chan apis.Result {
	out := make(chan apis.Result, 1)
	out <- apis.Result{Path: r.path}
	close(out)
	return out
}
func (r fixedResolver) Stats() apis.Stats { return apis.Stats{} }

// nilBuilder returns a cache but no resolver.
type nilBuilder struct{ inner apis.Builder }

func (b nilBuilder) BuildCache(cfg apis.Config, prev apis.Cache) apis.Cache {
	return b.inner.BuildCache(cfg, prev)
}
func (b nilBuilder) BuildResolver(apis.Config, apis.Table, apis.Cache, apis.Resolver) apis.Resolver {
	return nil
}

// ---------------------- Helpers ----------------------

type recorder struct {
	mu     sync.Mutex
	events []apis.Event
}

func (r *recorder) handler(e apis.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) list() []apis.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]apis.Event(nil), r.events...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newEngine(t *testing.T, opts ...modalias.Option) *modalias.Engine {
	t.Helper()
	e := modalias.New(append([]modalias.Option{modalias.WithLogOutput(io.Discard)}, opts...)...)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// ---------------------- Tests ----------------------

func TestInit_LoadsPackageJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{
  "name": "app",
  "_moduleAliases": {"@utils": "src/utils", "@root": "."},
  "_moduleDirectories": ["vendor_modules"]
}`)
	unit := searchpath.NewUnit("/usr/lib/node")
	notifier := newFakeNotifier()
	rec := &recorder{}

	e, err := modalias.Init(context.Background(),
		modalias.WithConfig(config.WithBase(dir)),
		modalias.WithNotifier(notifier),
		modalias.WithHost(searchpath.StaticHost{unit}),
		modalias.WithLogOutput(io.Discard),
		modalias.WithHandler(apis.EventInitialized, rec.handler),
		modalias.WithHandler(apis.EventPathAdded, rec.handler),
	)
	require.NoError(t, err)
	defer e.Close()

	seen := rec.list()
	require.Len(t, seen, 2)
	assert.Equal(t, apis.EventPathAdded, seen[0].Kind)
	assert.Equal(t, apis.EventInitialized, seen[1].Kind)
	assert.Equal(t, 2, seen[1].Fields["aliases"])

	got, err := e.Resolve("@utils/helper", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src", "utils", "helper"), got)

	got, err = e.Resolve("@root", "")
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	vendor := filepath.Join(dir, "vendor_modules")
	assert.Equal(t, []string{vendor}, e.SearchPaths())
	assert.Equal(t, []string{vendor, "/usr/lib/node"}, unit.SearchRoots())
	assert.Equal(t, []string{filepath.Join(dir, "package.json")}, e.Sources())
	assert.Len(t, e.Aliases(), 2)
}

func TestInit_ConfigNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := modalias.Init(context.Background(),
		modalias.WithConfig(config.WithBase(dir), config.WithFileNames("modalias-missing.yaml")),
		modalias.WithLogOutput(io.Discard),
	)
	var notFound *apis.ConfigNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, filepath.Join(dir, "modalias-missing.yaml"), notFound.Candidates[0])
}

func TestInit_NoHotReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "modalias.yaml"), "aliases:\n  \"@a\": /a\n")
	notifier := newFakeNotifier()
	e, err := modalias.Init(context.Background(),
		modalias.WithConfig(config.WithBase(dir), config.WithHotReload(false)),
		modalias.WithNotifier(notifier),
		modalias.WithLogOutput(io.Discard),
	)
	require.NoError(t, err)
	defer e.Close()
	assert.Empty(t, e.Sources())
	assert.False(t, notifier.fire(filepath.Join(dir, "modalias.yaml")))
}

func TestHotReload(t *testing.T) {
	dir := t.TempDir()
	URL := filepath.Join(dir, "package.json")
	writeFile(t, URL, `{"_moduleAliases": {"@a": "/v1"}}`)
	notifier := newFakeNotifier()
	rec := &recorder{}

	e, err := modalias.Init(context.Background(),
		modalias.WithConfig(config.WithBase(URL)),
		modalias.WithNotifier(notifier),
		modalias.WithLogOutput(io.Discard),
	)
	require.NoError(t, err)
	defer e.Close()
	e.On(apis.EventAliasesReloaded, rec.handler)
	e.On(apis.EventLog, rec.handler)

	got, _ := e.Resolve("@a/x", "/o")
	assert.Equal(t, filepath.FromSlash("/v1/x"), got)

	writeFile(t, URL, `{"_moduleAliases": {"@a": "/v2", "@b": "/b"}}`)
	require.True(t, notifier.fire(URL))
	got, _ = e.Resolve("@a/x", "/o")
	assert.Equal(t, filepath.FromSlash("/v2/x"), got, "cache was invalidated by the reload")
	assert.Equal(t, 2, e.Stats().Aliases)

	writeFile(t, URL, `{"_moduleAliases": `)
	require.True(t, notifier.fire(URL))
	got, _ = e.Resolve("@a/x", "/o")
	assert.Equal(t, filepath.FromSlash("/v2/x"), got, "failed reload keeps the previous table")

	var kinds []apis.EventKind
	var errorLogged bool
	for _, ev := range rec.list() {
		kinds = append(kinds, ev.Kind)
		if ev.Kind == apis.EventLog && ev.Level == "ERROR" {
			errorLogged = true
			assert.Equal(t, URL, ev.Fields["source"])
		}
	}
	assert.Contains(t, kinds, apis.EventAliasesReloaded)
	assert.True(t, errorLogged)
}

// TestHotReload_ResetFromHandler reacts to a reload with Reset on the
// polling path and expects Reset to return.
func TestHotReload_ResetFromHandler(t *testing.T) {
	dir := t.TempDir()
	URL := filepath.Join(dir, "package.json")
	writeFile(t, URL, `{"_moduleAliases": {"@a": "/v1"}}`)

	e, err := modalias.Init(context.Background(),
		modalias.WithConfig(config.WithBase(URL), config.WithReloadInterval(50*time.Millisecond)),
		modalias.WithLogOutput(io.Discard),
	)
	require.NoError(t, err)
	defer e.Close()

	returned := make(chan struct{})
	var once sync.Once
	e.On(apis.EventAliasesReloaded, func(apis.Event) {
		e.Reset()
		once.Do(func() { close(returned) })
	})

	writeFile(t, URL, `{"_moduleAliases": {"@a": "/v2"}}`)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(URL, future, future))

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("Reset called from a reload handler did not return")
	}
	assert.Empty(t, e.Sources())
	assert.Empty(t, e.Aliases())
}

func TestAddAliasAndEvents(t *testing.T) {
	e := newEngine(t)
	rec := &recorder{}
	id := e.On(apis.EventAliasAdded, rec.handler)

	require.NoError(t, e.AddAlias("@utils", apis.StaticPath("/project/src/utils")))
	require.NoError(t, e.AddAliases(map[string]apis.Target{
		"@a":   apis.StaticPath("/x"),
		"@a/b": apis.StaticPath("/y"),
	}))
	require.Len(t, rec.list(), 3)
	assert.Equal(t, "@utils", rec.list()[0].Fields["name"])

	require.True(t, e.Off(id))
	require.NoError(t, e.AddAlias("@later", apis.StaticPath("/later")))
	assert.Len(t, rec.list(), 3)

	got, err := e.Resolve("@utils/helper", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/project/src/utils/helper"), got)
	got, _ = e.Resolve("@a/b/c", "")
	assert.Equal(t, filepath.FromSlash("/y/c"), got)
	got, _ = e.Resolve("@a/z", "")
	assert.Equal(t, filepath.FromSlash("/x/z"), got)

	err = e.AddAliases(map[string]apis.Target{"@ok": apis.StaticPath("/ok"), " ": apis.StaticPath("/bad")})
	var verr *apis.ValidationError
	require.True(t, errors.As(err, &verr))
	_, err = e.Resolve("@ok", "")
	require.NoError(t, err)
	for _, entry := range e.Aliases() {
		assert.NotEqual(t, "@ok", entry.Name, "a failed AddAliases applies nothing")
	}
}

func TestDynamicAlias(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddAlias("@gen", apis.Dynamic(func(origin, request, alias string) (string, error) {
		return filepath.Join(filepath.Dir(origin), "generated"), nil
	})))
	got, err := e.Resolve("@gen/file", "/app/src/main.js")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/app/src/generated/file"), got)

	require.NoError(t, e.AddAlias("@broken", apis.Dynamic(func(string, string, string) (string, error) {
		return "", nil
	})))
	_, err = e.Resolve("@broken/x", "")
	var rerr *apis.ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Contains(t, err.Error(), "custom handler for alias '@broken' did not return a valid path")
}

func TestIsPathMatchesAlias(t *testing.T) {
	e := newEngine(t)
	assert.True(t, e.IsPathMatchesAlias("@foo", "@foo"))
	assert.True(t, e.IsPathMatchesAlias("@foo/x", "@foo"))
	assert.False(t, e.IsPathMatchesAlias("@foobar", "@foo"))
	assert.False(t, e.IsPathMatchesAlias("@foobar", "@foo"), "memoized answer")
}

func TestResolveAsync(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddAlias("@a", apis.StaticPath("/x")))
	res := <-e.ResolveAsync(context.Background(), "@a/b", "")
	require.NoError(t, res.Err)
	assert.Equal(t, filepath.FromSlash("/x/b"), res.Path)
}

func TestStats(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddAlias("@a", apis.StaticPath("/x")))
	_, err := e.AddPath(t.TempDir())
	require.NoError(t, err)

	_, _ = e.Resolve("@a/1", "/o")
	_, _ = e.Resolve("@a/1", "/o")
	_, _ = e.Resolve("plain", "/o")

	stats := e.Stats()
	assert.EqualValues(t, 3, stats.Resolutions)
	assert.EqualValues(t, 1, stats.CacheHits)
	assert.EqualValues(t, 1, stats.AliasMatches)
	assert.Equal(t, 1, stats.Aliases)
	assert.Equal(t, 1, stats.SearchPaths)
	assert.Positive(t, stats.CacheSize)
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	URL := filepath.Join(dir, "package.json")
	writeFile(t, URL, `{"_moduleAliases": {"@a": "/a"}, "_moduleDirectories": ["lib"]}`)
	unit := searchpath.NewUnit("/orig")
	notifier := newFakeNotifier()
	rec := &recorder{}

	e, err := modalias.Init(context.Background(),
		modalias.WithConfig(config.WithBase(dir)),
		modalias.WithNotifier(notifier),
		modalias.WithHost(searchpath.StaticHost{unit}),
		modalias.WithLogOutput(io.Discard),
	)
	require.NoError(t, err)
	defer e.Close()
	e.On(apis.EventReset, rec.handler)
	_, _ = e.Resolve("@a/x", "/o")

	e.Reset()
	assert.Empty(t, e.Aliases())
	assert.Empty(t, e.SearchPaths())
	assert.Empty(t, e.Sources())
	assert.Equal(t, []string{"/orig"}, unit.SearchRoots())
	assert.Zero(t, e.Stats().CacheSize)
	assert.Len(t, rec.list(), 1)
	assert.False(t, notifier.fire(URL), "reset stops watching")

	got, err := e.Resolve("@a/x", "/o")
	require.NoError(t, err)
	assert.Equal(t, "@a/x", got)
}

func TestSetDebugMode(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddAlias("@a", apis.StaticPath(filepath.Join(t.TempDir(), "missing"))))
	_, _ = e.Resolve("plain", "")

	rec := &recorder{}
	e.On(apis.EventLog, rec.handler)
	e.SetDebugMode(true)
	assert.True(t, e.Config().Debug)
	assert.EqualValues(t, 1, e.Stats().Resolutions, "counters survive the rebuild")

	_, err := e.Resolve("@a/x", "")
	require.NoError(t, err)
	var warned bool
	for _, ev := range rec.list() {
		if ev.Level == "WARNING" && ev.Message == "alias target does not exist" {
			warned = true
		}
	}
	assert.True(t, warned)

	e.SetDebugMode(false)
	assert.False(t, e.Config().Debug)
}

func TestSetResolver_Pinning(t *testing.T) {
	e := newEngine(t)
	e.SetResolver(fixedResolver{path: "/fixed"})
	assert.True(t, e.IsResolverPinned())

	e.SetDebugMode(true)
	got, _ := e.Resolve("anything", "")
	assert.Equal(t, "/fixed", got, "pinned resolver survives rebuilds")

	e.UnpinResolver()
	assert.False(t, e.IsResolverPinned())
	got, _ = e.Resolve("anything", "")
	assert.Equal(t, "anything", got)

	e.SetResolver(nil)
	assert.False(t, e.IsResolverPinned())
}

func TestSetBuilder_NilResolverPanics(t *testing.T) {
	e := newEngine(t)
	defer func() {
		r := recover()
		assert.Equal(t, modalias.ErrNilResolver, r)
	}()
	e.SetBuilder(nilBuilder{inner: e.Builder()})
	t.Fatal("expected panic")
}

// TestConcurrentResolveDuringMutation hammers Resolve while aliases are
// replaced and the resolver is rebuilt.
func TestConcurrentResolveDuringMutation(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddAlias("@a", apis.StaticPath("/x")))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				got, err := e.Resolve("@a/f", "")
				if err != nil {
					t.Errorf("Resolve: %v", err)
					return
				}
				if got != filepath.FromSlash("/x/f") && got != filepath.FromSlash("/y/f") {
					t.Errorf("unexpected %q", got)
					return
				}
			}
		}()
	}
	for i := 0; i < 200; i++ {
		target := "/x"
		if i%2 == 0 {
			target = "/y"
		}
		require.NoError(t, e.AddAlias("@a", apis.StaticPath(target)))
		e.SetDebugMode(i%3 == 0)
	}
	close(stop)
	wg.Wait()
}
