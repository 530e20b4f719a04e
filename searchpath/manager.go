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

// Package searchpath maintains extra module search directories and
// propagates them to the host's program units.
package searchpath

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"dirpx.dev/modalias/apis"
)

// Option customizes a Manager.
type Option func(*Manager)

// WithEmitter sets where path-added events go.
func WithEmitter(emitter apis.Emitter) Option {
	return func(m *Manager) { m.emitter = emitter }
}

// WithLogger sets the diagnostics sink.
func WithLogger(log apis.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// Manager is the ordered list of added search paths, most recent first.
type Manager struct {
	host    apis.Host
	emitter apis.Emitter
	log     apis.Logger

	mu       sync.Mutex
	paths    []string
	inserted []insertion
}

// insertion records a path placed into a unit by this manager.
type insertion struct {
	unit apis.Unit
	path string
}

// New returns a Manager propagating to the units of host. host may be nil.
func New(host apis.Host, opts ...Option) *Manager {
	m := &Manager{host: host}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add makes path absolute and puts it in front of the list and of the
// search roots of every host unit not already holding it. It returns false
// when the path was added before.
func (m *Manager) Add(path string) (bool, error) {
	if strings.TrimSpace(path) == "" {
		return false, &apis.ValidationError{Field: "search path", Value: path, Err: apis.ErrEmptyPath}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to make %v absolute", path)
	}

	m.mu.Lock()
	for _, p := range m.paths {
		if p == abs {
			m.mu.Unlock()
			return false, nil
		}
	}
	m.paths = append([]string{abs}, m.paths...)
	if m.host != nil {
		for _, unit := range m.host.Units() {
			if unit == nil {
				continue
			}
			roots := unit.SearchRoots()
			if contains(roots, abs) {
				continue
			}
			unit.SetSearchRoots(append([]string{abs}, roots...))
			m.inserted = append(m.inserted, insertion{unit: unit, path: abs})
		}
	}
	m.mu.Unlock()

	if m.log != nil {
		m.log.Debug("search path added", "path", abs)
	}
	if m.emitter != nil {
		m.emitter.Emit(apis.Event{Kind: apis.EventPathAdded, Fields: map[string]any{"path": abs}})
	}
	return true, nil
}

// Paths returns the added paths, most recent first.
func (m *Manager) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// Len returns the number of added paths.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.paths)
}

// Reset empties the list and removes from each unit exactly the paths this
// manager inserted there. Roots the units had before are kept.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	byUnit := map[apis.Unit]map[string]bool{}
	var order []apis.Unit
	for _, in := range m.inserted {
		set, ok := byUnit[in.unit]
		if !ok {
			set = map[string]bool{}
			byUnit[in.unit] = set
			order = append(order, in.unit)
		}
		set[in.path] = true
	}
	for _, unit := range order {
		remove := byUnit[unit]
		roots := unit.SearchRoots()
		kept := make([]string, 0, len(roots))
		for _, r := range roots {
			if !remove[r] {
				kept = append(kept, r)
			}
		}
		unit.SetSearchRoots(kept)
	}
	m.paths = nil
	m.inserted = nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
