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

package apis

// Target is what an alias rewrites to. It is a closed set: StaticPath or
// DynamicResolver. Consumers dispatch with a type switch over both.
type Target interface {
	// String returns a printable form for logs and notifications.
	String() string
	isTarget()
}

// StaticPath is a fixed base path substituted for the alias prefix.
type StaticPath string

func (p StaticPath) String() string { return string(p) }
func (StaticPath) isTarget()        {}

// ResolverFunc computes the base path for a single request.
// It receives the origin path of the requesting unit, the full request and
// the matched alias. It must return a non-empty path or an error.
type ResolverFunc func(origin, request, alias string) (string, error)

// DynamicResolver is a Target computed per request by Func.
type DynamicResolver struct {
	Func ResolverFunc
}

func (d DynamicResolver) String() string { return "<func>" }
func (DynamicResolver) isTarget()        {}

// Dynamic wraps fn as a Target.
func Dynamic(fn ResolverFunc) Target {
	return DynamicResolver{Func: fn}
}

// Entry is a single (name, target) association in a Table snapshot.
type Entry struct {
	// Name is the alias prefix, e.g. "@utils".
	Name string
	// Target is the static path or resolver function the alias rewrites to.
	Target Target
}
