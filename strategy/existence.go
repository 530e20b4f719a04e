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

package strategy

import (
	"context"
	"path/filepath"

	"github.com/viant/afs"

	"dirpx.dev/modalias/apis"
)

// WithExistenceCheck decorates inner so every absolute path it produces is
// checked on fs. A missing path is only logged; the path is still returned.
func WithExistenceCheck(inner apis.Strategy, fs afs.Service, log apis.Logger) apis.Strategy {
	if inner == nil || fs == nil {
		return inner
	}
	return &existenceCheck{inner: inner, fs: fs, log: log}
}

type existenceCheck struct {
	inner apis.Strategy
	fs    afs.Service
	log   apis.Logger
}

// Ensure existenceCheck implements apis.Strategy.
var _ apis.Strategy = (*existenceCheck)(nil)

func (s *existenceCheck) TryResolve(req apis.Request, snap apis.Snapshot) (string, bool, error) {
	path, handled, err := s.inner.TryResolve(req, snap)
	if err != nil || !handled || !filepath.IsAbs(path) {
		return path, handled, err
	}
	exists, existsErr := s.fs.Exists(context.Background(), path)
	if s.log == nil {
		return path, handled, nil
	}
	switch {
	case existsErr != nil:
		s.log.Warn("could not check alias target", "request", req.Path, "path", path, "error", existsErr)
	case !exists:
		s.log.Warn("alias target does not exist", "request", req.Path, "path", path)
	}
	return path, handled, nil
}
