package sheetdash

import (
	"context"
	"sync"
	"time"
)

// Watcher re-runs the refresh cycle on a fixed interval and publishes a
// snapshot whenever the source version changes
type Watcher struct {
	client   *Client
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	changes  chan *Snapshot

	refreshMutex sync.Mutex
	errMu        sync.Mutex
	lastErr      error
	wg           sync.WaitGroup
	stopOnce     sync.Once
}

// NewWatcher creates a watcher; a non-positive interval uses the client's
// RefreshInterval
func NewWatcher(client *Client, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = client.config.RefreshInterval
	}
	return &Watcher{
		client:   client,
		interval: interval,
		done:     make(chan struct{}),
		changes:  make(chan *Snapshot, 1),
	}
}

// Changes delivers snapshots whose data changed. Only the newest pending
// snapshot is kept if the consumer falls behind.
func (w *Watcher) Changes() <-chan *Snapshot {
	return w.changes
}

// Start runs one cycle immediately, then one per interval until Stop is
// called or ctx is done
func (w *Watcher) Start(ctx context.Context) {
	w.ticker = time.NewTicker(w.interval)
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()

		w.performRefresh(ctx)
		for {
			select {
			case <-w.ticker.C:
				w.performRefresh(ctx)
			case <-ctx.Done():
				return
			case <-w.done:
				return
			}
		}
	}()
}

// performRefresh executes one cycle, skipping if the previous one is still running
func (w *Watcher) performRefresh(ctx context.Context) {
	if !w.refreshMutex.TryLock() {
		return
	}
	defer w.refreshMutex.Unlock()

	snapshot, err := w.client.Refresh(ctx)

	w.errMu.Lock()
	w.lastErr = err
	w.errMu.Unlock()

	if err != nil || !snapshot.Changed {
		return
	}
	w.publish(snapshot)
}

func (w *Watcher) publish(snapshot *Snapshot) {
	for {
		select {
		case w.changes <- snapshot:
			return
		default:
		}
		// Drop the stale pending snapshot in favour of the new one
		select {
		case <-w.changes:
		default:
		}
	}
}

// LastError returns the error of the most recent cycle, or nil
func (w *Watcher) LastError() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()

	return w.lastErr
}

// Stop stops the watcher and waits for an ongoing cycle. Calling it more
// than once is a no-op.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		if w.ticker != nil {
			w.ticker.Stop()
		}

		close(w.done)
		w.wg.Wait()

		w.refreshMutex.Lock()
		w.refreshMutex.Unlock()

		close(w.changes)
	})
}
