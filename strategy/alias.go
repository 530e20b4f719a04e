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
	"strings"

	"github.com/pkg/errors"

	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/cache"
	upath "dirpx.dev/modalias/utils/path"
)

// NewAliasStrategy creates an apis.Strategy that rewrites a request using the
// longest alias matching it. matcher may be nil to skip match memoization.
func NewAliasStrategy(matcher *cache.Matcher) apis.Strategy {
	return &aliasStrategy{matcher: matcher}
}

// aliasStrategy walks aliases longest first so "react-dom/server" wins over
// "react-dom". The first match decides: a failing resolver function stops
// resolution instead of falling back to a shorter alias.
type aliasStrategy struct {
	matcher *cache.Matcher
}

// Ensure aliasStrategy implements apis.Strategy.
var _ apis.Strategy = (*aliasStrategy)(nil)

// TryResolve resolves req against snap.
func (s *aliasStrategy) TryResolve(req apis.Request, snap apis.Snapshot) (string, bool, error) {
	if snap == nil || req.Path == "" {
		return "", false, nil
	}
	for _, alias := range snap.Names() {
		if !s.matcher.Matches(req.Path, alias) {
			continue
		}
		target, ok := snap.Lookup(alias)
		if !ok {
			continue
		}
		base, err := basePath(target, req, alias)
		if err != nil {
			return "", true, err
		}
		return upath.Join(base, upath.Remainder(req.Path, alias)), true, nil
	}
	return "", false, nil
}

// basePath dispatches over the closed Target variant.
func basePath(target apis.Target, req apis.Request, alias string) (string, error) {
	switch t := target.(type) {
	case apis.StaticPath:
		return string(t), nil
	case apis.DynamicResolver:
		return invoke(t.Func, req, alias)
	default:
		return "", &apis.ResolutionError{Alias: alias, Err: apis.ErrNilTarget}
	}
}

// invoke calls a resolver function, turning errors, panics and blank
// results into a ResolutionError naming the alias.
func invoke(fn apis.ResolverFunc, req apis.Request, alias string) (path string, err error) {
	if fn == nil {
		return "", &apis.ResolutionError{Alias: alias, Err: apis.ErrNilTarget}
	}
	defer func() {
		if r := recover(); r != nil {
			path, err = "", &apis.ResolutionError{Alias: alias, Err: errors.Errorf("panic: %v", r)}
		}
	}()
	path, err = fn(req.Origin, req.Path, alias)
	if err != nil {
		return "", &apis.ResolutionError{Alias: alias, Err: errors.WithStack(err)}
	}
	if strings.TrimSpace(path) == "" {
		return "", &apis.ResolutionError{Alias: alias, Err: apis.ErrInvalidResult}
	}
	return path, nil
}
