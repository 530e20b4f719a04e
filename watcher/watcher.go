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

// Package watcher keeps an alias table in sync with its configuration
// sources. A change reported by the notifier reloads the source and swaps
// the table in one step; a failed reload leaves the table untouched.
package watcher

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/viant/afs"

	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/source"
)

// Option customizes a Watcher.
type Option func(*Watcher)

// WithFS sets the file system sources are read from.
func WithFS(fs afs.Service) Option {
	return func(w *Watcher) { w.fs = fs }
}

// WithNotifier sets the change detector.
func WithNotifier(n apis.Notifier) Option {
	return func(w *Watcher) { w.notifier = n }
}

// WithLogger sets the diagnostics sink.
func WithLogger(log apis.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// WithEmitter sets where aliases-reloaded events go.
func WithEmitter(emitter apis.Emitter) Option {
	return func(w *Watcher) { w.emitter = emitter }
}

// WithOnLoad registers a hook run after every successful reload, e.g. to
// pick up search directories declared by the source.
func WithOnLoad(fn func(*source.Source)) Option {
	return func(w *Watcher) { w.onLoad = fn }
}

// Watcher reloads alias tables from watched sources.
type Watcher struct {
	table    apis.Table
	fs       afs.Service
	notifier apis.Notifier
	log      apis.Logger
	emitter  apis.Emitter
	onLoad   func(*source.Source)

	mu      sync.Mutex
	watches map[string]io.Closer
	locks   map[string]*sync.Mutex
}

// New returns a Watcher replacing the content of table on reload.
func New(table apis.Table, opts ...Option) *Watcher {
	w := &Watcher{
		table:   table,
		watches: map[string]io.Closer{},
		locks:   map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.fs == nil {
		w.fs = afs.New()
	}
	if w.notifier == nil {
		w.notifier = NewPollingNotifier(w.fs, 0)
	}
	return w
}

// Watch starts watching URL. Watching an already watched source is a no-op.
func (w *Watcher) Watch(ctx context.Context, URL string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watches[URL]; ok {
		return nil
	}
	closer, err := w.notifier.Watch(ctx, URL, func(ctx context.Context) {
		_ = w.Reload(ctx, URL)
	})
	if err != nil {
		return &apis.ReloadError{Source: URL, Err: err}
	}
	w.watches[URL] = closer
	w.debug("watching alias source", "source", URL)
	return nil
}

// Unwatch stops watching URL. Unknown sources are ignored.
func (w *Watcher) Unwatch(URL string) error {
	w.mu.Lock()
	closer, ok := w.watches[URL]
	delete(w.watches, URL)
	w.mu.Unlock()
	if !ok || closer == nil {
		return nil
	}
	return closer.Close()
}

// Close stops every watch.
func (w *Watcher) Close() error {
	w.mu.Lock()
	watches := w.watches
	w.watches = map[string]io.Closer{}
	w.mu.Unlock()

	var first error
	for _, closer := range watches {
		if closer == nil {
			continue
		}
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Sources returns the watched sources in lexical order.
func (w *Watcher) Sources() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.watches))
	for URL := range w.watches {
		out = append(out, URL)
	}
	sort.Strings(out)
	return out
}

// Reload loads URL and replaces the table with its aliases. Reloads of the
// same source never overlap. On failure the table keeps its previous
// content and a *apis.ReloadError is logged and returned.
func (w *Watcher) Reload(ctx context.Context, URL string) error {
	lock := w.lockFor(URL)
	lock.Lock()
	defer lock.Unlock()

	src, err := source.Load(ctx, w.fs, URL)
	if err == nil {
		err = w.table.Replace(src.Aliases)
	}
	if err != nil {
		rerr := &apis.ReloadError{Source: URL, Err: err}
		if w.log != nil {
			w.log.Error("failed to reload aliases", "source", URL, "error", err)
		}
		return rerr
	}

	if w.onLoad != nil {
		w.onLoad(src)
	}
	if w.log != nil {
		w.log.Info("aliases reloaded", "source", URL, "count", len(src.Aliases))
	}
	if w.emitter != nil {
		w.emitter.Emit(apis.Event{
			Kind:   apis.EventAliasesReloaded,
			Fields: map[string]any{"source": URL, "count": len(src.Aliases)},
		})
	}
	return nil
}

func (w *Watcher) lockFor(URL string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	lock, ok := w.locks[URL]
	if !ok {
		lock = &sync.Mutex{}
		w.locks[URL] = lock
	}
	return lock
}

func (w *Watcher) debug(msg string, kv ...any) {
	if w.log != nil {
		w.log.Debug(msg, kv...)
	}
}
