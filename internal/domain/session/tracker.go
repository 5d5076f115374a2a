// Package session tracks user idle time and expires sessions after a
// period of inactivity. State lives in an owned Tracker object with an
// injected clock rather than in package-level globals, so expiry is
// testable without real timers.
package session

import (
	"sync"
	"time"
)

// DefaultTimeout is the idle period after which a session expires.
const DefaultTimeout = 10 * time.Minute

// Clock returns the current time. Tests inject a fake.
type Clock func() time.Time

// Tracker watches a single session's activity. Touch resets the idle
// window; when the window elapses without activity the onExpire
// callback fires once and the tracker stops.
type Tracker struct {
	timeout  time.Duration
	clock    Clock
	onExpire func()

	mu           sync.Mutex
	lastActivity time.Time
	timer        *time.Timer
	running      bool
}

// NewTracker creates a stopped tracker. A zero timeout falls back to
// DefaultTimeout; a nil clock falls back to time.Now.
func NewTracker(timeout time.Duration, clock Clock, onExpire func()) *Tracker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if clock == nil {
		clock = time.Now
	}
	if onExpire == nil {
		onExpire = func() {}
	}
	return &Tracker{timeout: timeout, clock: clock, onExpire: onExpire}
}

// Start begins tracking, stamping the current time as last activity.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastActivity = t.clock()
	t.running = true
	t.resetTimerLocked()
}

// Touch records activity and resets the idle window. Touching a
// stopped tracker is a no-op.
func (t *Tracker) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.lastActivity = t.clock()
	t.resetTimerLocked()
}

// Stop halts tracking without firing the expiry callback.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// LastActivity returns the most recent activity timestamp.
func (t *Tracker) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastActivity
}

// ExpiresAt returns when the session will expire absent further
// activity, or the zero time when the tracker is stopped.
func (t *Tracker) ExpiresAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return time.Time{}
	}
	return t.lastActivity.Add(t.timeout)
}

// Expired reports whether the idle window has elapsed according to the
// injected clock. A stopped tracker is not expired.
func (t *Tracker) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return false
	}
	return t.clock().Sub(t.lastActivity) > t.timeout
}

// CheckOnLoad mirrors session restoration: given a persisted
// last-activity timestamp it either resumes tracking or expires
// immediately. Returns true when the session was still live.
func (t *Tracker) CheckOnLoad(lastActivity time.Time) bool {
	t.mu.Lock()
	if t.clock().Sub(lastActivity) > t.timeout {
		// The callback fires even when tracking never started: a stale
		// persisted session must be torn down on load.
		t.running = false
		if t.timer != nil {
			t.timer.Stop()
			t.timer = nil
		}
		t.mu.Unlock()
		t.onExpire()
		return false
	}
	t.lastActivity = t.clock()
	t.running = true
	t.resetTimerLocked()
	t.mu.Unlock()
	return true
}

func (t *Tracker) resetTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.timeout, t.expire)
}

func (t *Tracker) expire() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	// Guard against a stale timer firing right after a Touch.
	if t.clock().Sub(t.lastActivity) < t.timeout {
		t.resetTimerLocked()
		t.mu.Unlock()
		return
	}
	t.running = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()

	t.onExpire()
}
