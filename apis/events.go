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

import "time"

// EventKind names a notification emitted by the engine.
type EventKind string

const (
	EventAliasAdded      EventKind = "alias-added"
	EventPathAdded       EventKind = "path-added"
	EventAliasesReloaded EventKind = "aliases-reloaded"
	EventReset           EventKind = "reset"
	EventInitialized     EventKind = "initialized"
	EventLog             EventKind = "log"
)

// Event is an observational notification. No consumer is required to react.
type Event struct {
	Kind EventKind
	Time time.Time
	// Level and Message are set for EventLog only.
	Level   string
	Message string
	Fields  map[string]any
}

// Handler receives events.
type Handler func(Event)

// Emitter publishes events to subscribers.
type Emitter interface {
	// Emit delivers e to every handler subscribed to e.Kind.
	Emit(e Event)
}

// Logger is the diagnostics sink used by engine components.
// kv is a flat list of alternating keys and values.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}
