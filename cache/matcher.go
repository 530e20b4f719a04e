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

package cache

import (
	"dirpx.dev/modalias/apis"
	upath "dirpx.dev/modalias/utils/path"
)

// Matcher memoizes path-matches-alias results in a shared cache.
type Matcher struct {
	cache apis.Cache
}

// NewMatcher returns a Matcher backed by c. A nil cache disables memoization.
func NewMatcher(c apis.Cache) *Matcher {
	return &Matcher{cache: c}
}

// Matches reports whether path is covered by alias.
func (m *Matcher) Matches(path, alias string) bool {
	if m == nil || m.cache == nil {
		return upath.Matches(path, alias)
	}
	key := MatchKey(path, alias)
	if v, ok := m.cache.Get(key); ok {
		if matched, ok := v.(bool); ok {
			return matched
		}
	}
	matched := upath.Matches(path, alias)
	m.cache.Put(key, matched)
	return matched
}
