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

package watcher

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/cloudless/resource"

	"dirpx.dev/modalias/apis"
	"dirpx.dev/modalias/config"
	"dirpx.dev/modalias/source"
)

// PollingNotifier detects changes by periodically listing the directory of
// the watched file with a cloudless resource tracker.
type PollingNotifier struct {
	fs       afs.Service
	interval time.Duration
}

// Ensure PollingNotifier implements apis.Notifier.
var _ apis.Notifier = (*PollingNotifier)(nil)

// NewPollingNotifier returns a notifier polling every interval.
// A non-positive interval uses config.DefaultReloadInterval.
func NewPollingNotifier(fs afs.Service, interval time.Duration) *PollingNotifier {
	if fs == nil {
		fs = afs.New()
	}
	if interval <= 0 {
		interval = config.DefaultReloadInterval
	}
	return &PollingNotifier{fs: fs, interval: interval}
}

// Watch calls onChange whenever URL is added or modified. The current state
// is taken as the baseline, so an unchanged file never fires. Polling stops
// when ctx is done or the returned closer is closed.
func (n *PollingNotifier) Watch(ctx context.Context, URL string, onChange func(ctx context.Context)) (io.Closer, error) {
	if onChange == nil {
		return nil, errors.New("onChange was nil")
	}
	dir, name := filepath.Split(source.LocalPath(URL))
	tracker := resource.New(dir, n.interval)
	baseline := func(context.Context, storage.Object, resource.Operation) error { return nil }
	if err := tracker.Notify(ctx, n.fs, baseline); err != nil {
		return nil, errors.Wrapf(err, "failed to list %v", dir)
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &poller{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			changed := false
			_ = tracker.Notify(ctx, n.fs, func(_ context.Context, object storage.Object, op resource.Operation) error {
				if object.IsDir() || object.Name() != name {
					return nil
				}
				switch op {
				case resource.Added, resource.Modified:
					changed = true
				}
				return nil
			})
			if changed && ctx.Err() == nil {
				go p.fire(ctx, onChange)
			}
		}
	}()
	return p, nil
}

// poller stops one polling goroutine. Callbacks run outside of it, one at
// a time, so a callback may close its own watch.
type poller struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
	fireMu sync.Mutex
}

func (p *poller) fire(ctx context.Context, onChange func(ctx context.Context)) {
	p.fireMu.Lock()
	defer p.fireMu.Unlock()
	if ctx.Err() != nil {
		return
	}
	onChange(ctx)
}

// Close stops polling. A callback already running is not waited for;
// one not yet started is skipped.
func (p *poller) Close() error {
	p.once.Do(func() {
		p.cancel()
		<-p.done
	})
	return nil
}
