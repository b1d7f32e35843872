// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"time"

	"github.com/nxgtw/go-winsync/internal/sys"

	"github.com/pkg/errors"
)

// Cond is a condition variable, bound to a Mutex for the duration of each
// wait. The pairing is the caller's contract, not enforced by the type:
// every waiter of one Cond must pass the same mutex, locked.
//
// On the modern tier release-and-wait is a single native operation. On the
// other tiers it is emulated with a manual-reset event: the mutex is
// unlocked, the event is waited on, the mutex is relocked. A notification
// falling between the unlock and the wait registration can be missed, which
// is why every notification on these tiers pulses all current waiters; a
// waiter, that barely missed a one-shot handoff, still gets a pulse meant
// for someone else. Spurious wakeups are tolerated by contract, so callers
// must recheck their predicate in a loop around every wait.
type Cond struct {
	inner uintptr // native condvar word, or an event handle
}

// NewCond creates a new condition variable. On the fallback tiers failure
// to create the event object is fatal, see NewMutex.
func NewCond() *Cond {
	c := &Cond{}
	if activeTier() != tierModern {
		h, err := sys.CreateEvent(true, false)
		if err != nil {
			panic(errors.Wrap(err, "winsync: failed to create an event"))
		}
		c.inner = uintptr(h)
	}
	return c
}

// Wait unlocks m and suspends the caller until the cond is notified,
// relocking m before return.
func (c *Cond) Wait(m *Mutex) {
	if activeTier() == tierModern {
		if _, err := sys.SleepConditionVariableSRW(&c.inner, m.raw(), sys.Infinite); err != nil {
			panic(errors.Wrap(err, "winsync: condvar wait failed"))
		}
		return
	}
	m.Unlock()
	if _, err := sys.WaitForObject(sys.Handle(c.inner), sys.Infinite); err != nil {
		panic(errors.Wrap(err, "winsync: event wait failed"))
	}
	m.Lock()
}

// WaitTimeout is like Wait, but gives up after the given duration.
// It returns false, if the wait timed out; m is relocked either way.
func (c *Cond) WaitTimeout(m *Mutex, timeout time.Duration) bool {
	if activeTier() == tierModern {
		woken, err := sys.SleepConditionVariableSRW(&c.inner, m.raw(), timeout)
		if err != nil {
			panic(errors.Wrap(err, "winsync: condvar wait failed"))
		}
		return woken
	}
	m.Unlock()
	woken, err := sys.WaitForObject(sys.Handle(c.inner), timeout)
	if err != nil {
		panic(errors.Wrap(err, "winsync: event wait failed"))
	}
	m.Lock()
	return woken
}

// Signal wakes one waiter on the modern tier. On the fallback tiers it
// wakes all current waiters instead: over-notification only costs wakeups,
// which are spurious by contract anyway, while a targeted wake could be
// lost in the emulation's unlock-to-wait window.
func (c *Cond) Signal() {
	if activeTier() == tierModern {
		sys.WakeConditionVariable(&c.inner)
		return
	}
	c.pulse()
}

// Broadcast wakes all waiters on every tier.
func (c *Cond) Broadcast() {
	if activeTier() == tierModern {
		sys.WakeAllConditionVariable(&c.inner)
		return
	}
	c.pulse()
}

func (c *Cond) pulse() {
	if err := sys.PulseEvent(sys.Handle(c.inner)); err != nil {
		panic(errors.Wrap(err, "winsync: failed to pulse an event"))
	}
}

// Close releases the event object of the fallback tiers; on the modern tier
// it is a no-op, native condition variables need no destruction. It must not
// race any wait or notification.
func (c *Cond) Close() error {
	if activeTier() == tierModern || c.inner == 0 {
		return nil
	}
	err := sys.CloseHandle(sys.Handle(c.inner))
	c.inner = 0
	return err
}
