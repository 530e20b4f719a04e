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

package apis

// Table owns the alias mapping. Mutations publish a whole new Snapshot so
// concurrent readers never observe a partially applied change.
type Table interface {
	// Add validates and stores a single alias, overwriting any existing one.
	Add(name string, target Target) error
	// AddMany validates every pair first and then applies them in one swap.
	AddMany(mapping map[string]Target) error
	// Replace drops the current mapping and installs mapping in one swap.
	Replace(mapping map[string]Target) error
	// Names returns alias names ordered longest first.
	Names() []string
	// Lookup returns the target registered for name.
	Lookup(name string) (Target, bool)
	// Snapshot returns the currently published immutable view.
	Snapshot() Snapshot
	// Len returns the number of aliases.
	Len() int
	// Reset clears every alias.
	Reset()
}

// Snapshot is an immutable view of a Table at one point in time.
type Snapshot interface {
	// Names returns alias names ordered by descending length.
	Names() []string
	// Lookup returns the target registered for name.
	Lookup(name string) (Target, bool)
	// Entries returns every entry in Names order.
	Entries() []Entry
	// Len returns the number of aliases.
	Len() int
	// Version increases with every published snapshot.
	Version() uint64
}
