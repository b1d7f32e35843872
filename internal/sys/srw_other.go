// Copyright 2017 Aleksandr Demakin. All rights reserved.

//go:build !windows
// +build !windows

package sys

import (
	"sync"
	"sync/atomic"
	"time"
)

// The emulation implements the whole slim lock family, so both probes
// succeed and the richest tier is selected, unless a test forces another one.

// HasTryAcquireSRWLockExclusive reports whether slim reader/writer locks are
// fully usable.
func HasTryAcquireSRWLockExclusive() bool { return true }

// HasTryEnterCriticalSection reports whether TryEnterCriticalSection exists.
func HasTryEnterCriticalSection() bool { return true }

// srwState backs one emulated slim lock. The lock's storage word starts at
// zero, exactly like the native bit pattern, and receives the state's handle
// on first use. States are retained for process lifetime, matching the
// native family's lack of a destroy operation.
type srwState struct {
	mu      sync.Mutex
	free    *sync.Cond
	readers int
	writer  bool
}

func newSRWState() *srwState {
	s := &srwState{}
	s.free = sync.NewCond(&s.mu)
	return s
}

// install performs the lazy first-touch installation of a state handle into
// a zero storage word. A losing racer discards its speculative object.
func install(p *uintptr, obj interface{}) Handle {
	if h := atomic.LoadUintptr(p); h != 0 {
		return Handle(h)
	}
	h := registerObject(obj)
	if atomic.CompareAndSwapUintptr(p, 0, uintptr(h)) {
		return h
	}
	CloseHandle(h)
	return Handle(atomic.LoadUintptr(p))
}

func srwOf(p *uintptr) *srwState {
	return lookupObject(install(p, newSRWState())).(*srwState)
}

// AcquireSRWLockExclusive acquires the lock at p in exclusive mode.
func AcquireSRWLockExclusive(p *uintptr) {
	s := srwOf(p)
	s.mu.Lock()
	for s.writer || s.readers > 0 {
		s.free.Wait()
	}
	s.writer = true
	s.mu.Unlock()
}

// TryAcquireSRWLockExclusive tries to acquire the lock at p in exclusive mode.
func TryAcquireSRWLockExclusive(p *uintptr) bool {
	s := srwOf(p)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer || s.readers > 0 {
		return false
	}
	s.writer = true
	return true
}

// ReleaseSRWLockExclusive releases a lock held in exclusive mode.
func ReleaseSRWLockExclusive(p *uintptr) {
	s := srwOf(p)
	s.mu.Lock()
	s.writer = false
	s.mu.Unlock()
	s.free.Broadcast()
}

// AcquireSRWLockShared acquires the lock at p in shared mode.
func AcquireSRWLockShared(p *uintptr) {
	s := srwOf(p)
	s.mu.Lock()
	for s.writer {
		s.free.Wait()
	}
	s.readers++
	s.mu.Unlock()
}

// TryAcquireSRWLockShared tries to acquire the lock at p in shared mode.
func TryAcquireSRWLockShared(p *uintptr) bool {
	s := srwOf(p)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer {
		return false
	}
	s.readers++
	return true
}

// ReleaseSRWLockShared releases a lock held in shared mode.
func ReleaseSRWLockShared(p *uintptr) {
	s := srwOf(p)
	s.mu.Lock()
	s.readers--
	s.mu.Unlock()
	s.free.Broadcast()
}

// condState backs one emulated condition variable.
type condState struct {
	mu      sync.Mutex
	waiters []chan struct{}
}

func condOf(p *uintptr) *condState {
	return lookupObject(install(p, &condState{})).(*condState)
}

func (c *condState) removeWaiter(w chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, x := range c.waiters {
		if x == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// SleepConditionVariableSRW atomically releases the exclusively held lock at
// lock and waits on the condition variable at cv, relocking before return.
// The waiter is queued before the lock is released, so a wake sent right
// after the caller unlocked cannot be lost.
func SleepConditionVariableSRW(cv, lock *uintptr, timeout time.Duration) (bool, error) {
	c := condOf(cv)
	wake := make(chan struct{})
	c.mu.Lock()
	c.waiters = append(c.waiters, wake)
	c.mu.Unlock()
	ReleaseSRWLockExclusive(lock)
	woken := true
	if timeout < 0 {
		<-wake
	} else {
		t := time.NewTimer(timeout)
		select {
		case <-wake:
			t.Stop()
		case <-t.C:
			// if the waiter is already dequeued, a wake raced the
			// timeout; count it as woken.
			woken = !c.removeWaiter(wake)
		}
	}
	AcquireSRWLockExclusive(lock)
	return woken, nil
}

// WakeConditionVariable wakes one waiter of the condition variable at cv.
func WakeConditionVariable(cv *uintptr) {
	c := condOf(cv)
	c.mu.Lock()
	if len(c.waiters) > 0 {
		close(c.waiters[0])
		c.waiters = c.waiters[1:]
	}
	c.mu.Unlock()
}

// WakeAllConditionVariable wakes all waiters of the condition variable at cv.
func WakeAllConditionVariable(cv *uintptr) {
	c := condOf(cv)
	c.mu.Lock()
	for _, w := range c.waiters {
		close(w)
	}
	c.waiters = nil
	c.mu.Unlock()
}
