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

// Cache is a bounded, time-expiring memo shared by match and resolve lookups.
type Cache interface {
	// Get returns the value for key, or false when absent or expired.
	Get(key string) (any, bool)
	// Put stores value under key, evicting the oldest entry when full.
	Put(key string, value any)
	// InvalidateAll drops every entry.
	InvalidateAll()
	// Len returns the number of stored entries, expired ones included.
	Len() int
	// Evictions returns how many entries were evicted for capacity.
	Evictions() int64
}
