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
	"strconv"
	"strings"
)

// Namespaces share one store; the prefix keeps them from colliding.
const (
	matchPrefix   = "m\x00"
	resolvePrefix = "r\x00"
)

// MatchKey keys a path-matches-alias result.
func MatchKey(path, alias string) string {
	return join(matchPrefix, path, alias)
}

// ResolveKey keys a resolved-request result.
func ResolveKey(request, origin string) string {
	return join(resolvePrefix, request, origin)
}

// join length-prefixes a so no pair of inputs can produce the same key.
func join(prefix, a, b string) string {
	size := strconv.Itoa(len(a))
	var sb strings.Builder
	sb.Grow(len(prefix) + len(size) + len(a) + len(b) + 1)
	sb.WriteString(prefix)
	sb.WriteString(size)
	sb.WriteByte(':')
	sb.WriteString(a)
	sb.WriteString(b)
	return sb.String()
}
