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

package source

import (
	"context"
	"os"
	"path/filepath"

	"github.com/viant/afs"

	"dirpx.dev/modalias/apis"
)

// Candidates lists where a configuration file is looked for, in order:
// base itself when it names a file, otherwise base joined with every name,
// then the working directory and the executable's directory likewise.
// Duplicates are dropped.
func Candidates(ctx context.Context, fs afs.Service, base string, names []string) []string {
	var dirs []string
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		if isFile(ctx, fs, base) {
			add(base)
		} else {
			dirs = append(dirs, base)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	for _, dir := range dirs {
		for _, name := range names {
			add(filepath.Join(dir, name))
		}
	}
	return out
}

// Locate returns the first candidate that exists on fs.
// It fails with *apis.ConfigNotFoundError listing every candidate tried.
func Locate(ctx context.Context, fs afs.Service, base string, names []string) (string, error) {
	candidates := Candidates(ctx, fs, base, names)
	for _, candidate := range candidates {
		if isFile(ctx, fs, candidate) {
			return candidate, nil
		}
	}
	return "", &apis.ConfigNotFoundError{Candidates: candidates}
}

func isFile(ctx context.Context, fs afs.Service, URL string) bool {
	if ok, err := fs.Exists(ctx, URL); err != nil || !ok {
		return false
	}
	object, err := fs.Object(ctx, URL)
	if err != nil {
		return false
	}
	return !object.IsDir()
}
