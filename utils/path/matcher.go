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
	"os"
	"strings"
)

// Matches reports whether path is covered by alias.
//
// A path matches iff it starts with alias and either equals it or the byte
// right after the prefix is a path separator. "@foo" therefore matches
// "@foo" and "@foo/x" but never "@foobar".
func Matches(path, alias string) bool {
	if alias == "" || !strings.HasPrefix(path, alias) {
		return false
	}
	if len(path) == len(alias) {
		return true
	}
	return IsSeparator(path[len(alias)])
}

// IsSeparator reports whether c separates path elements on this platform.
func IsSeparator(c byte) bool {
	return c == '/' || c == os.PathSeparator
}

// Remainder returns the part of path after the alias prefix, separator
// included. It returns "" when path does not match alias.
func Remainder(path, alias string) string {
	if !Matches(path, alias) {
		return ""
	}
	return path[len(alias):]
}
