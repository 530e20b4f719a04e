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

import (
	"time"

	"dirpx.dev/modalias/cache/strategy"
)

// Config carries engine knobs. It is passed by value and should be treated
// as immutable by implementations.
type Config struct {
	// Base overrides where the configuration source is looked up.
	// It may name a file or a directory searched for FileNames.
	Base string

	// Debug enables verbose diagnostics and advisory existence checks
	// on resolved paths.
	Debug bool

	// HotReload keeps the alias table in sync with the configuration source.
	HotReload bool

	// CacheTTL is how long a cached resolution stays valid.
	CacheTTL time.Duration

	// CacheCapacity bounds the number of cached entries.
	CacheCapacity int

	// CacheStrategy selects the eviction policy.
	CacheStrategy strategy.Strategy

	// ReloadInterval is the polling period of the configuration watcher.
	ReloadInterval time.Duration

	// FileNames are the configuration file names tried in each candidate
	// directory, in order.
	FileNames []string
}
