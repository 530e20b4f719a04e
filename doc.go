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

// Package modalias rewrites alias-prefixed module requests into concrete
// filesystem paths.
//
// A request such as "@utils/helper" is matched against a table of aliases.
// The longest alias covering the request wins, so "react-dom/server" takes
// priority over "react-dom". A match is exact or followed by a path
// separator: "@foo" covers "@foo" and "@foo/x" but never "@foobar".
// Requests no alias covers pass through unchanged.
//
// # Targets
//
// An alias points either to a static path (apis.StaticPath) or to a
// resolver function (apis.Dynamic) called with the requesting file, the
// request and the alias. A function that errors or returns an empty path
// aborts that resolution with *apis.ResolutionError; shorter aliases
// are not tried.
//
// # Design
//
// The engine keeps its rebuildable layers, configuration, builder, cache
// and resolver, in an immutable state published through an atomic pointer.
// Readers load it without locking. Writers (SetDebugMode, SetBuilder,
// SetResolver) take a short build lock, assemble a new state and swap it
// in. The alias table follows the same pattern on its own: every mutation
// builds a complete new snapshot, so a resolution in flight sees either the
// old table or the new one, never a mix.
//
// Resolutions are memoized in a bounded cache (1000 entries, 5s TTL,
// oldest-inserted evicted first). Any table mutation clears it.
//
// # Configuration sources
//
// Init looks for package.json ("_moduleAliases", "_moduleDirectories") or
// modalias.yaml ("aliases", "directories") in Config.Base, the working
// directory and the executable's directory. Relative targets are resolved
// against the file's directory. With hot reload on, the file is polled and
// a change replaces the whole table; a broken file is logged and ignored.
//
// # Usage
//
//	e, err := modalias.Init(ctx, modalias.WithConfig(config.WithBase("./app")))
//	if err != nil {
//		return err
//	}
//	defer e.Close()
//	path, err := e.Resolve("@utils/helper", "/app/src/main.js")
//
// # Notifications
//
// On subscribes to alias-added, path-added, aliases-reloaded, reset,
// initialized and log events. Handlers run synchronously on the emitting
// goroutine and are purely observational.
package modalias
