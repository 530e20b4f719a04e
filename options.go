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

package modalias

import (
	"io"

	"github.com/viant/afs"
	"github.com/viant/gmetric"

	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/config"
)

// Option configures an Engine at construction.
type Option func(*options)

type options struct {
	config    []config.Option
	fs        afs.Service
	notifier  apis.Notifier
	host      apis.Host
	builder   apis.Builder
	logOutput io.Writer
	metrics   *gmetric.Service
	handlers  []subscription
}

type subscription struct {
	kind    apis.EventKind
	handler apis.Handler
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.fs == nil {
		o.fs = afs.New()
	}
	return o
}

// WithConfig applies configuration options, e.g. config.WithBase.
func WithConfig(opts ...config.Option) Option {
	return func(o *options) { o.config = append(o.config, opts...) }
}

// WithEnv applies MODALIAS_* environment overrides, loading .env files first.
// Options given after it win.
func WithEnv(files ...string) Option {
	return func(o *options) { o.config = append(o.config, config.FromEnv(files...)...) }
}

// WithFS sets the file system configuration sources are read from.
func WithFS(fs afs.Service) Option {
	return func(o *options) { o.fs = fs }
}

// WithNotifier replaces the polling change detector used for hot reload.
func WithNotifier(n apis.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithHost sets the program units receiving added search paths.
func WithHost(host apis.Host) Option {
	return func(o *options) { o.host = host }
}

// WithBuilder replaces the default cache and resolver builder.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) { o.builder = b }
}

// WithLogOutput sets where log records are written. Defaults to stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithMetrics records resolution latency on srv.
func WithMetrics(srv *gmetric.Service) Option {
	return func(o *options) { o.metrics = srv }
}

// WithHandler subscribes handler to kind before anything is loaded, so
// events emitted by Init are observed too.
func WithHandler(kind apis.EventKind, handler apis.Handler) Option {
	return func(o *options) { o.handlers = append(o.handlers, subscription{kind: kind, handler: handler}) }
}
