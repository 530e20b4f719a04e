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

	"dirpx.dev/modalias/apis"
)

// snapshot is an immutable table view. Never mutate a published snapshot.
type snapshot struct {
	entries map[string]apis.Target
	// names is sorted by descending length, then lexically.
	names   []string
	version uint64
}

// Ensure snapshot implements apis.Snapshot.
var _ apis.Snapshot = (*snapshot)(nil)

func newSnapshot(entries map[string]apis.Target, version uint64) *snapshot {
	if entries == nil {
		entries = map[string]apis.Target{}
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return &snapshot{entries: entries, names: names, version: version}
}

// Names returns a copy of the longest-first name order.
func (s *snapshot) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *snapshot) Lookup(name string) (apis.Target, bool) {
	t, ok := s.entries[name]
	return t, ok
}

func (s *snapshot) Entries() []apis.Entry {
	out := make([]apis.Entry, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, apis.Entry{Name: name, Target: s.entries[name]})
	}
	return out
}

func (s *snapshot) Len() int        { return len(s.names) }
func (s *snapshot) Version() uint64 { return s.version }
