package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
)

// Snapshot is the cached authentication state for one session ID.
type Snapshot struct {
	User          models.User
	Authenticated bool
	CheckedAt     time.Time
}

// Watcher keeps a Snapshot for a session current. It re-derives the state
// from the store on every change notification and on a fixed interval, so
// a logout performed elsewhere is observed here without trusting the event
// payload.
type Watcher struct {
	manager   *Manager
	sessionID string
	interval  time.Duration

	mu   sync.RWMutex
	snap Snapshot
}

// NewWatcher creates a watcher for the given session ID. A non-positive
// interval defaults to one minute.
func NewWatcher(manager *Manager, sessionID string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watcher{manager: manager, sessionID: sessionID, interval: interval}
}

// Snapshot returns the most recently derived state.
func (w *Watcher) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap
}

// Refresh re-derives the state from the store immediately.
func (w *Watcher) Refresh(ctx context.Context) Snapshot {
	sess, err := w.manager.Get(ctx, w.sessionID)
	snap := Snapshot{CheckedAt: time.Now()}
	if err != nil {
		log.Printf("session watcher: refresh failed: %v", err)
	} else if sess != nil {
		snap.User = sess.User
		snap.Authenticated = true
	}
	w.mu.Lock()
	w.snap = snap
	w.mu.Unlock()
	return snap
}

// Run keeps the snapshot current until ctx is done. It refreshes once at
// start, then on every relevant store event and every interval tick.
func (w *Watcher) Run(ctx context.Context) {
	w.Refresh(ctx)

	events, err := w.manager.store.Watch(ctx)
	if err != nil {
		log.Printf("session watcher: watch unavailable, polling only: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Refresh(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Key == KeyPrefix+w.sessionID {
				w.Refresh(ctx)
			}
		}
	}
}
