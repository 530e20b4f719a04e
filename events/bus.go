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

package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"dirpx.dev/modalias/apis"
)

// New constructs an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[string]subscription)}
}

// Bus is a synchronous publish/subscribe hub for engine notifications.
// Handlers run on the emitting goroutine; a panicking handler is recovered
// so it cannot break the operation that emitted.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]subscription
	// order keeps dispatch in subscription order.
	order []string
	log   apis.Logger
}

// SetLogger sets where handler panics are reported. Without a logger they
// are emitted as error-level log events.
func (b *Bus) SetLogger(log apis.Logger) {
	b.mu.Lock()
	b.log = log
	b.mu.Unlock()
}

type subscription struct {
	kind    apis.EventKind
	handler apis.Handler
}

// Ensure Bus implements apis.Emitter.
var _ apis.Emitter = (*Bus)(nil)

// On subscribes handler to kind and returns the subscription id used by Off.
func (b *Bus) On(kind apis.EventKind, handler apis.Handler) string {
	if handler == nil {
		return ""
	}
	id := uuid.NewString()
	b.mu.Lock()
	b.subs[id] = subscription{kind: kind, handler: handler}
	b.order = append(b.order, id)
	b.mu.Unlock()
	return id
}

// Off removes a subscription. It reports whether id was subscribed.
func (b *Bus) Off(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[id]; !ok {
		return false
	}
	delete(b.subs, id)
	for i, candidate := range b.order {
		if candidate == id {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// Emit delivers e to every handler subscribed to e.Kind.
func (b *Bus) Emit(e apis.Event) {
	if b == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.mu.RLock()
	var handlers []apis.Handler
	for _, id := range b.order {
		if sub := b.subs[id]; sub.kind == e.Kind {
			handlers = append(handlers, sub.handler)
		}
	}
	log := b.log
	b.mu.RUnlock()
	for _, handler := range handlers {
		if r := dispatch(handler, e); r != nil {
			b.reportPanic(log, e.Kind, r)
		}
	}
}

// reportPanic records a recovered handler panic. Panics of log handlers
// are dropped so reporting cannot recurse.
func (b *Bus) reportPanic(log apis.Logger, kind apis.EventKind, r any) {
	if kind == apis.EventLog {
		return
	}
	if log != nil {
		log.Error("event handler panicked", "kind", string(kind), "panic", r)
		return
	}
	b.Emit(apis.Event{
		Kind:    apis.EventLog,
		Level:   "ERROR",
		Message: "event handler panicked",
		Fields:  map[string]any{"kind": string(kind), "panic": r},
	})
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func dispatch(handler apis.Handler, e apis.Event) (recovered any) {
	defer func() { recovered = recover() }()
	handler(e)
	return nil
}
