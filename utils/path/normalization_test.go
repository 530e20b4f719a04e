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

package path_test

import (
	"path/filepath"
	"testing"

	upath "dirpx.dev/modalias/utils/path"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"/project/src/utils/", filepath.Clean("/project/src/utils")},
		{" /a/./b/../c ", filepath.Clean("/a/c")},
		{"lodash", "lodash"},
	}
	for _, tc := range cases {
		if got := upath.Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := upath.Join("/project/src/utils", "/helper"); got != filepath.Join("/project/src/utils", "helper") {
		t.Fatalf("Join = %q", got)
	}
	if got := upath.Join("/x", ""); got != "/x" {
		t.Fatalf("Join with empty remainder = %q, want /x", got)
	}
}

func TestResolveAgainst(t *testing.T) {
	dir := filepath.FromSlash("/project")
	if got := upath.ResolveAgainst(dir, "src/utils"); got != filepath.Join(dir, "src", "utils") {
		t.Fatalf("relative = %q", got)
	}
	abs := filepath.FromSlash("/opt/lib")
	if got := upath.ResolveAgainst(dir, abs); got != abs {
		t.Fatalf("absolute = %q, want %q", got, abs)
	}
}
