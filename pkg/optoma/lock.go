// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lumen Labs

package optoma

import (
	"sync"
	"time"
)

// busyLock tracks the window during which the projector is presumed busy
// completing a previously dispatched command. It is a guard layered on top
// of the request serialization mutex, not a replacement for it: the mutex
// keeps transport round trips from overlapping, the busyLock keeps new
// state-changing commands from being issued while the device is still
// working through the last one.
//
// Expiry is lazy. There is no background timer; a stale lock is cleared by
// the first check after its class timeout elapses.
type busyLock struct {
	mu     sync.Mutex
	locked bool
	class  CommandClass
	since  time.Time
	now    func() time.Time
}

// acquire records the command's class and the current time and moves to the
// locked state.
func (l *busyLock) acquire(cmd Command) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = true
	l.class = cmd.Class()
	l.since = l.clock()()
}

// check reports whether the lock is still held. A lock whose class timeout
// has elapsed is released as a side effect; while unlocked, check never
// mutates state.
func (l *busyLock) check() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.locked {
		return false
	}
	if l.clock()().Sub(l.since) > l.class.Timeout() {
		l.reset()
		return false
	}
	return true
}

// release force-unlocks, for callers that know the pending operation has
// completed. Expiry via check is the only built-in release path.
func (l *busyLock) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset()
}

func (l *busyLock) reset() {
	l.locked = false
	l.class = ClassGeneric
	l.since = time.Time{}
}

func (l *busyLock) clock() func() time.Time {
	if l.now != nil {
		return l.now
	}
	return time.Now
}
