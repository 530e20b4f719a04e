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

package searchpath

import (
	"sync"

	"dirpx.dev/modalias/apis"
)

// Unit is an in-memory apis.Unit safe for concurrent use.
type Unit struct {
	mu    sync.RWMutex
	roots []string
}

// Ensure Unit implements apis.Unit.
var _ apis.Unit = (*Unit)(nil)

// NewUnit returns a unit starting with roots.
func NewUnit(roots ...string) *Unit {
	return &Unit{roots: append([]string(nil), roots...)}
}

// SearchRoots returns a copy of the unit's roots.
func (u *Unit) SearchRoots() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]string(nil), u.roots...)
}

// SetSearchRoots replaces the unit's roots.
func (u *Unit) SetSearchRoots(roots []string) {
	u.mu.Lock()
	u.roots = append([]string(nil), roots...)
	u.mu.Unlock()
}

// StaticHost is an apis.Host over a fixed set of units.
type StaticHost []apis.Unit

// Ensure StaticHost implements apis.Host.
var _ apis.Host = StaticHost(nil)

// Units returns the host's units.
func (h StaticHost) Units() []apis.Unit { return h }
