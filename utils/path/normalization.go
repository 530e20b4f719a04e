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

package path

import (
	"path/filepath"
	"strings"
)

// Normalize returns the canonical form of a static target: trimmed and
// lexically cleaned. Blank input yields "".
func Normalize(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// Join appends remainder to base. An empty remainder returns base unchanged
// so a bare alias resolves to exactly its target.
func Join(base, remainder string) string {
	if remainder == "" {
		return base
	}
	return filepath.Join(base, remainder)
}

// ResolveAgainst makes target absolute relative to dir. Absolute targets
// are returned cleaned.
func ResolveAgainst(dir, target string) string {
	target = Normalize(target)
	if target == "" || filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(dir, target)
}
