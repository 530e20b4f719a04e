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

package registry

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"dirpx.dev/modalias/apis"
	upath "dirpx.dev/modalias/utils/path"
)

// New constructs an empty alias Table. Every mutation invalidates cache and
// Add/AddMany announce each alias on emitter. Both may be nil.
func New(cache apis.Cache, emitter apis.Emitter) apis.Table {
	r := &registry{cache: cache, emitter: emitter}
	r.snap.Store(newSnapshot(nil, 0))
	return r
}

// registry publishes immutable snapshots through an atomic pointer.
// Readers never lock; writers serialize on mu and swap a fully built map.
type registry struct {
	// mu serializes writers so a snapshot is never built from a stale base.
	mu      sync.Mutex
	snap    atomic.Pointer[snapshot]
	cache   apis.Cache
	emitter apis.Emitter
}

// Add validates and stores a single alias, overwriting any existing one.
func (r *registry) Add(name string, target apis.Target) error {
	return r.AddMany(map[string]apis.Target{name: target})
}

// AddMany validates every pair before applying any of them.
func (r *registry) AddMany(mapping map[string]apis.Target) error {
	entries, err := validate(mapping)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	r.mu.Lock()
	old := r.snap.Load()
	next := make(map[string]apis.Target, len(old.entries)+len(entries))
	for name, target := range old.entries {
		next[name] = target
	}
	for _, e := range entries {
		next[e.Name] = e.Target
	}
	r.snap.Store(newSnapshot(next, old.version+1))
	r.mu.Unlock()

	r.invalidate()
	for _, e := range entries {
		r.emit(apis.Event{
			Kind:   apis.EventAliasAdded,
			Fields: map[string]any{"name": e.Name, "target": e.Target.String()},
		})
	}
	return nil
}

// Replace installs mapping as the whole table in one swap.
func (r *registry) Replace(mapping map[string]apis.Target) error {
	entries, err := validate(mapping)
	if err != nil {
		return err
	}
	next := make(map[string]apis.Target, len(entries))
	for _, e := range entries {
		next[e.Name] = e.Target
	}

	r.mu.Lock()
	r.snap.Store(newSnapshot(next, r.snap.Load().version+1))
	r.mu.Unlock()

	r.invalidate()
	return nil
}

// Names returns alias names ordered longest first.
func (r *registry) Names() []string {
	return r.snap.Load().Names()
}

// Lookup returns the target registered for name.
func (r *registry) Lookup(name string) (apis.Target, bool) {
	return r.snap.Load().Lookup(name)
}

// Snapshot returns the currently published view.
func (r *registry) Snapshot() apis.Snapshot {
	return r.snap.Load()
}

// Len returns the number of aliases.
func (r *registry) Len() int {
	return r.snap.Load().Len()
}

// Reset clears every alias.
func (r *registry) Reset() {
	r.mu.Lock()
	r.snap.Store(newSnapshot(nil, r.snap.Load().version+1))
	r.mu.Unlock()
	r.invalidate()
}

func (r *registry) invalidate() {
	if r.cache != nil {
		r.cache.InvalidateAll()
	}
}

func (r *registry) emit(e apis.Event) {
	if r.emitter != nil {
		r.emitter.Emit(e)
	}
}

// validate checks and normalizes every pair, returning them sorted by name
// so notifications come out in a stable order.
func validate(mapping map[string]apis.Target) ([]apis.Entry, error) {
	entries := make([]apis.Entry, 0, len(mapping))
	for name, target := range mapping {
		e, err := normalize(name, target)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func normalize(name string, target apis.Target) (apis.Entry, error) {
	if strings.TrimSpace(name) == "" {
		return apis.Entry{}, &apis.ValidationError{Field: "alias name", Value: name, Err: apis.ErrEmptyName}
	}
	switch t := target.(type) {
	case apis.StaticPath:
		p := upath.Normalize(string(t))
		if p == "" {
			return apis.Entry{}, &apis.ValidationError{Field: "alias target", Value: name, Err: apis.ErrEmptyTarget}
		}
		return apis.Entry{Name: name, Target: apis.StaticPath(p)}, nil
	case apis.DynamicResolver:
		if t.Func == nil {
			return apis.Entry{}, &apis.ValidationError{Field: "alias target", Value: name, Err: apis.ErrNilTarget}
		}
		return apis.Entry{Name: name, Target: t}, nil
	default:
		return apis.Entry{}, &apis.ValidationError{Field: "alias target", Value: name, Err: apis.ErrNilTarget}
	}
}
