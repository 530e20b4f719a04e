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

import "context"

// Request is a single resolution: the identifier being resolved and the
// path of the unit asking for it.
type Request struct {
	// Path is the module identifier, e.g. "@utils/helper".
	Path string
	// Origin is the filesystem path of the requesting unit.
	// Empty means the process-level default.
	Origin string
}

// Result carries the outcome of an asynchronous resolution.
type Result struct {
	Path string
	Err  error
}

// Resolver turns a request into a final path.
// Implementations must be safe for concurrent use.
type Resolver interface {
	// Resolve returns the rewritten path, or the request unchanged when no
	// alias matches. Only a failing DynamicResolver yields an error.
	Resolve(req Request) (string, error)
	// ResolveAsync runs Resolve and delivers the outcome on the returned channel.
	ResolveAsync(ctx context.Context, req Request) <-chan Result
	// Stats returns the resolution counters.
	Stats() Stats
}

// Stats reports resolution counters and current sizes.
type Stats struct {
	Resolutions  int64
	CacheHits    int64
	AliasMatches int64
	Evictions    int64
	Aliases      int
	CacheSize    int
	SearchPaths  int
}
