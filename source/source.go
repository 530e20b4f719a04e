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

// Package source locates and loads alias configuration files.
//
// Two formats are understood. A package.json carries aliases under
// "_moduleAliases" and extra search directories under "_moduleDirectories".
// A modalias.yaml (or .yml) carries them under "aliases" and "directories".
// Relative targets and directories are resolved against the file's directory.
package source

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"dirpx.dev/modalias/apis"
	upath "dirpx.dev/modalias/utils/path"
)

// Source is the parsed content of one configuration file.
type Source struct {
	// URL the source was loaded from.
	URL string
	// Dir is the directory relative entries were resolved against.
	Dir string
	// Aliases maps alias names to static targets.
	Aliases map[string]apis.Target
	// Directories are extra search paths, in file order.
	Directories []string
}

// Names returns alias names in lexical order.
func (s *Source) Names() []string {
	names := make([]string, 0, len(s.Aliases))
	for name := range s.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type packageJSON struct {
	Aliases     map[string]string `json:"_moduleAliases"`
	Directories []string          `json:"_moduleDirectories"`
}

type aliasFile struct {
	Aliases     map[string]string `yaml:"aliases"`
	Directories []string          `yaml:"directories"`
}

// Load downloads URL from fs and parses it.
func Load(ctx context.Context, fs afs.Service, URL string) (*Source, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", URL)
	}
	return Parse(URL, data)
}

// Parse decodes data according to the extension of URL: YAML for .yaml and
// .yml, JSON otherwise.
func Parse(URL string, data []byte) (*Source, error) {
	var aliases map[string]string
	var dirs []string
	if IsYAML(URL) {
		doc := aliasFile{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %v", URL)
		}
		aliases, dirs = doc.Aliases, doc.Directories
	} else {
		doc := packageJSON{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %v", URL)
		}
		aliases, dirs = doc.Aliases, doc.Directories
	}

	dir := filepath.Dir(filepath.FromSlash(LocalPath(URL)))
	ret := &Source{URL: URL, Dir: dir, Aliases: make(map[string]apis.Target, len(aliases))}
	for name, target := range aliases {
		ret.Aliases[name] = apis.StaticPath(upath.ResolveAgainst(dir, target))
	}
	for _, d := range dirs {
		if d = upath.ResolveAgainst(dir, d); d != "" {
			ret.Directories = append(ret.Directories, d)
		}
	}
	return ret, nil
}

// IsYAML reports whether URL names a YAML file.
func IsYAML(URL string) bool {
	ext := strings.ToLower(filepath.Ext(URL))
	return ext == ".yaml" || ext == ".yml"
}

// LocalPath strips a file:// scheme from URL.
func LocalPath(URL string) string {
	return strings.TrimPrefix(URL, "file://")
}
