// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lumen Labs

package optoma

import (
	"testing"
	"time"
)

// fakeClock is an adjustable time source for lock expiry tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCommandClass(t *testing.T) {
	tests := []struct {
		cmd  Command
		want CommandClass
	}{
		{CmdPowerOn, ClassPowerOn},
		{CmdPowerOff, ClassPowerOff},
		{CmdSourceHDMI1, ClassSourceSelect},
		{CmdSourceHDMI2, ClassSourceSelect},
		{CmdSourceVGA, ClassSourceSelect},
		{CmdSourceComponent, ClassSourceSelect},
		{CmdSourceVideo, ClassSourceSelect},
		{CmdQueryPower, ClassGeneric},
		{CmdQuerySource, ClassGeneric},
		{CmdQueryDisplayMode, ClassGeneric},
		{Cmd3DOff, ClassGeneric},
		{Cmd3DSideBySide, ClassGeneric},
		{Cmd3DTopBottom, ClassGeneric},
		{Cmd3DSequential, ClassGeneric},
		{Command(999), ClassGeneric}, // outside the vocabulary
	}

	for _, tt := range tests {
		if got := tt.cmd.Class(); got != tt.want {
			t.Errorf("%v.Class() = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}

func TestClassTimeouts(t *testing.T) {
	tests := []struct {
		class CommandClass
		want  time.Duration
	}{
		{ClassPowerOn, 40 * time.Second},
		{ClassPowerOff, 60 * time.Second},
		{ClassSourceSelect, 2 * time.Second},
		{ClassGeneric, 2 * time.Second},
		{CommandClass(99), 2 * time.Second}, // falls back to generic
	}

	for _, tt := range tests {
		if got := tt.class.Timeout(); got != tt.want {
			t.Errorf("%v.Timeout() = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestBusyLock_ExpiryPerClass(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		timeout time.Duration
	}{
		{"power on", CmdPowerOn, 40 * time.Second},
		{"power off", CmdPowerOff, 60 * time.Second},
		{"source select", CmdSourceVGA, 2 * time.Second},
		{"generic", Cmd3DOff, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			l := &busyLock{now: clock.now}

			l.acquire(tt.cmd)
			if !l.check() {
				t.Fatal("expected busy immediately after acquire")
			}

			// Exactly at the timeout the lock still holds; expiry is strict.
			clock.advance(tt.timeout)
			if !l.check() {
				t.Fatal("expected busy at exactly the timeout boundary")
			}

			clock.advance(time.Nanosecond)
			if l.check() {
				t.Fatal("expected unlock after the timeout elapsed")
			}

			// Expiry left the lock in the unlocked state.
			if l.check() {
				t.Fatal("expected subsequent checks to stay unlocked")
			}
		})
	}
}

func TestBusyLock_CheckIdempotentWhileUnlocked(t *testing.T) {
	clock := newFakeClock()
	l := &busyLock{now: clock.now}

	for i := 0; i < 5; i++ {
		if l.check() {
			t.Fatalf("check %d: expected not busy on fresh lock", i)
		}
		clock.advance(time.Hour)
	}
}

func TestBusyLock_CheckWithinWindowDoesNotMutate(t *testing.T) {
	clock := newFakeClock()
	l := &busyLock{now: clock.now}

	l.acquire(CmdPowerOn)
	for i := 0; i < 3; i++ {
		clock.advance(10 * time.Second)
		if !l.check() {
			t.Fatalf("check %d: expected busy within the 40s window", i)
		}
	}
	// 30s elapsed; repeated checks must not have refreshed the start time.
	clock.advance(11 * time.Second)
	if l.check() {
		t.Fatal("expected unlock 41s after acquire")
	}
}

func TestBusyLock_Release(t *testing.T) {
	clock := newFakeClock()
	l := &busyLock{now: clock.now}

	l.acquire(CmdPowerOff)
	if !l.check() {
		t.Fatal("expected busy after acquire")
	}
	l.release()
	if l.check() {
		t.Fatal("expected not busy after release")
	}
}

func TestBusyLock_ReacquireResetsClass(t *testing.T) {
	clock := newFakeClock()
	l := &busyLock{now: clock.now}

	l.acquire(CmdPowerOn)
	l.release()
	l.acquire(CmdSourceHDMI1)

	clock.advance(3 * time.Second)
	if l.check() {
		t.Fatal("expected source-select window, not the earlier power-on window")
	}
}
