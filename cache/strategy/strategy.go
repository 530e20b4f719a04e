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

package strategy

import (
	"fmt"
	"strings"
)

// Strategy controls the eviction policy of the resolution cache.
//
// # Overview
//
// Strategy is a small enumerated type that selects how a full cache makes
// room for a new entry. Time-based expiry is orthogonal: every strategy
// still honors the configured TTL on reads.
//
// # Values
//
//   - FIFO: evict the oldest-inserted entry; reads never reorder entries.
//   - LRU: evict the least recently read or written entry.
//   - None: caching disabled (pass-through behavior).
//
// FIFO is the zero value and the default.
type Strategy int

const (
	// FIFO selects First In, First Out eviction.
	//
	// When the cache is full, the entry inserted longest ago is evicted.
	// Overwriting a key counts as a fresh insertion. Cache hits do not
	// change eviction order.
	FIFO Strategy = iota

	// LRU selects Least Recently Used eviction.
	//
	// Hits move an entry to the most recently used position, so entries
	// that keep getting read survive longer than under FIFO.
	LRU

	// None disables caching.
	//
	// Reads always miss and writes are dropped. Useful for debugging,
	// to compare behavior with and without caching.
	None
)

// String returns a human-readable representation of the Strategy value.
//
// For unknown or out-of-range values, String returns "Unknown(<n>)". It
// MUST NOT panic, so that unexpected values can still be surfaced safely
// in logs and diagnostics.
func (cs Strategy) String() string {
	switch cs {
	case FIFO:
		return "FIFO"
	case LRU:
		return "LRU"
	case None:
		return "None"
	default:
		return fmt.Sprintf("Unknown(%d)", cs)
	}
}

// Parse parses a textual representation of a Strategy.
//
// Accepted (case-insensitive, surrounding whitespace trimmed) inputs are
// "FIFO", "LRU" and "None". Any other input results in a non-nil error and
// the FIFO value, which callers MUST NOT rely on.
func Parse(s string) (Strategy, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return FIFO, fmt.Errorf("cache: empty strategy")
	}

	switch strings.ToUpper(trimmed) {
	case "FIFO":
		return FIFO, nil
	case "LRU":
		return LRU, nil
	case "NONE":
		return None, nil
	default:
		return FIFO, fmt.Errorf("cache: unknown strategy %q", s)
	}
}

// MustParse is like Parse but panics on invalid input.
//
//	var defaultStrategy = MustParse("FIFO")
func MustParse(s string) Strategy {
	strategy, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return strategy
}

// MarshalText implements encoding.TextMarshaler.
//
// Unknown values return an error rather than serializing "Unknown(...)",
// so invalid states are never persisted.
func (cs Strategy) MarshalText() ([]byte, error) {
	switch cs {
	case FIFO, LRU, None:
		return []byte(cs.String()), nil
	default:
		return nil, fmt.Errorf("cache: cannot marshal unknown strategy %d", cs)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
// On failure *cs is left unchanged and a non-nil error is returned.
func (cs *Strategy) UnmarshalText(text []byte) error {
	value, err := Parse(string(text))
	if err != nil {
		return err
	}
	*cs = value
	return nil
}
