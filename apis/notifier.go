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
	"context"
	"io"
)

// Notifier reports changes of a configuration source. Watch returns a
// handle that must be closed to release the observation.
type Notifier interface {
	Watch(ctx context.Context, URL string, onChange func(ctx context.Context)) (io.Closer, error)
}

// Unit is a loaded program unit with its own module search roots.
type Unit interface {
	SearchRoots() []string
	SetSearchRoots(roots []string)
}

// Host exposes the units whose search roots receive added paths: the
// top-level program and every ancestor of the current unit up to, but not
// including, that program.
type Host interface {
	Units() []Unit
}
