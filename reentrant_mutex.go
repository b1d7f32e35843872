// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"github.com/nxgtw/go-winsync/internal/sys"

	"github.com/pkg/errors"
)

// ReentrantMutex is a lock, which the owner may acquire again; it becomes
// available to others after a matching number of Unlock calls. Recursion is
// delegated entirely to the native object, the library does no counting.
//
// Only the recursion-capable families back it: critical sections on the
// modern and intermediate tiers, kernel mutex objects on the legacy one.
// The slim lock family is never used here, as it forbids recursion.
//
// The native objects track ownership per os thread, so a goroutine relying
// on reentrancy must stay wired to one thread (see runtime.LockOSThread).
//
// A ReentrantMutex must not be moved after Init.
type ReentrantMutex struct {
	cs     sys.CriticalSection
	handle sys.Handle
}

// NewReentrantMutex creates and initializes a new reentrant mutex.
func NewReentrantMutex() *ReentrantMutex {
	m := &ReentrantMutex{}
	m.Init()
	return m
}

// Init initializes m in place: a package-level variable combined with Init
// avoids the allocation of NewReentrantMutex. It must be called exactly
// once, before any other call. Failure to create the backing os object is
// fatal, see NewMutex.
func (m *ReentrantMutex) Init() {
	if activeTier() != tierLegacy {
		m.cs.Init()
		return
	}
	h, err := sys.CreateMutex()
	if err != nil {
		panic(errors.Wrap(err, "winsync: failed to create a mutex object"))
	}
	m.handle = h
}

// Lock locks m, blocking until it is available or owned by the caller.
func (m *ReentrantMutex) Lock() {
	if activeTier() != tierLegacy {
		m.cs.Enter()
		return
	}
	if _, err := sys.WaitForObject(m.handle, sys.Infinite); err != nil {
		panic(errors.Wrap(err, "winsync: mutex lock failed"))
	}
}

// TryLock tries to lock m without blocking and reports whether it succeeded.
// It always succeeds for the current owner.
func (m *ReentrantMutex) TryLock() bool {
	if activeTier() != tierLegacy {
		return m.cs.TryEnter()
	}
	ok, err := sys.WaitForObject(m.handle, 0)
	if err != nil {
		panic(errors.Wrap(err, "winsync: mutex try lock failed"))
	}
	return ok
}

// Unlock undoes a single Lock call by the owner.
func (m *ReentrantMutex) Unlock() {
	if activeTier() != tierLegacy {
		m.cs.Leave()
		return
	}
	if err := sys.ReleaseMutex(m.handle); err != nil {
		panic(errors.Wrap(err, "winsync: mutex unlock failed"))
	}
}

// Close releases the backing os object. It must be called at most once, and
// must not race any use of the mutex.
func (m *ReentrantMutex) Close() error {
	if activeTier() != tierLegacy {
		m.cs.Delete()
		return nil
	}
	if m.handle == 0 {
		return nil
	}
	err := sys.CloseHandle(m.handle)
	m.handle = 0
	return err
}
