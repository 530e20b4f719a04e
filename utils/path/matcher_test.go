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
	"runtime"
	"sync"
	"testing"

	upath "dirpx.dev/modalias/utils/path"
)

func TestMatches_Boundary(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		alias string
		want  bool
	}{
		{"exact", "@foo", "@foo", true},
		{"child", "@foo/x", "@foo", true},
		{"deep child", "@foo/x/y", "@foo", true},
		{"longer name", "@foobar/x", "@foo", false},
		{"longer name exact", "@foobar", "@foo", false},
		{"shorter path", "@fo", "@foo", false},
		{"unrelated", "lodash", "@foo", false},
		{"empty alias", "@foo", "", false},
		{"scoped package alias", "react-dom/server/index", "react-dom/server", true},
		{"trailing separator", "@foo/", "@foo", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := upath.Matches(tc.path, tc.alias); got != tc.want {
				t.Fatalf("Matches(%q, %q) = %v, want %v", tc.path, tc.alias, got, tc.want)
			}
		})
	}
}

func TestRemainder(t *testing.T) {
	if got := upath.Remainder("@utils/helper", "@utils"); got != "/helper" {
		t.Fatalf("Remainder = %q, want /helper", got)
	}
	if got := upath.Remainder("@utils", "@utils"); got != "" {
		t.Fatalf("Remainder exact = %q, want empty", got)
	}
	if got := upath.Remainder("@utilsx", "@utils"); got != "" {
		t.Fatalf("Remainder non-match = %q, want empty", got)
	}
}

// TestMatches_Concurrent verifies the matcher is a pure function under load.
func TestMatches_Concurrent(t *testing.T) {
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				if !upath.Matches("@a/b", "@a") || upath.Matches("@ab", "@a") {
					t.Errorf("unstable match result")
					return
				}
			}
		}()
	}
	wg.Wait()
}
