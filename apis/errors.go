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

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyName is returned when an alias name is blank.
	ErrEmptyName = errors.New("modalias: empty alias name")
	// ErrNilTarget is returned when an alias target is nil.
	ErrNilTarget = errors.New("modalias: nil alias target")
	// ErrEmptyTarget is returned when a static target is blank.
	ErrEmptyTarget = errors.New("modalias: empty alias target")
	// ErrEmptyPath is returned when a search path is blank.
	ErrEmptyPath = errors.New("modalias: empty search path")
	// ErrInvalidResult is the cause when a resolver function returns "".
	ErrInvalidResult = errors.New("modalias: resolver function returned an empty path")
)

// ValidationError reports malformed input at the call that introduced it.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
func (e *ValidationError) Cause() error  { return e.Err }

// ResolutionError reports a resolver function that failed to produce a
// usable path. It halts that resolution only.
type ResolutionError struct {
	Alias string
	Err   error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("custom handler for alias '%s' did not return a valid path", e.Alias)
	if e.Err != nil && !errors.Is(e.Err, ErrInvalidResult) {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return e.Err }
func (e *ResolutionError) Cause() error  { return e.Err }

// ConfigNotFoundError reports that no configuration source was found.
type ConfigNotFoundError struct {
	Candidates []string
}

func (e *ConfigNotFoundError) Error() string {
	return "configuration not found, tried: " + strings.Join(e.Candidates, ", ")
}

// ReloadError reports a configuration source that could not be re-read
// during a live reload. The previous table stays authoritative.
type ReloadError struct {
	Source string
	Err    error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("failed to reload aliases from %s: %v", e.Source, e.Err)
}

func (e *ReloadError) Unwrap() error { return e.Err }
func (e *ReloadError) Cause() error  { return e.Err }
