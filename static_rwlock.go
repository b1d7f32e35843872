// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"sync/atomic"
	"unsafe"

	"github.com/nxgtw/go-winsync/internal/sys"
)

// StaticRWLock is a reader/writer lock for fixed-address, process-lifetime
// use: package-level variables and the like. The zero value is an unlocked
// lock; there is nothing to destroy. It must not be moved once used.
//
// Only two backends are needed. Hosts without the slim lock family always
// have critical sections, and since no try-operations are offered here,
// TryEnterCriticalSection is not needed either, so the section fallback
// covers the legacy tier as well. Readers are exclusive on the fallback
// path, and a recursive acquisition there panics, the same way Mutex does.
type StaticRWLock struct {
	word     uintptr        // the native lock's bit pattern on the modern tier
	fallback unsafe.Pointer // *critSectionMutex, installed on first use
	held     bool
}

// StaticMutex is a StaticRWLock used in exclusive mode only.
type StaticMutex = StaticRWLock

// Lock locks l for writing.
func (l *StaticRWLock) Lock() {
	if activeTier() == tierModern {
		sys.AcquireSRWLockExclusive(&l.word)
		return
	}
	cs := l.section()
	cs.lock()
	if !l.flagLocked() {
		cs.unlock()
		panic("winsync: recursive lock of a static lock")
	}
}

// Unlock undoes a single Lock call.
func (l *StaticRWLock) Unlock() {
	if activeTier() == tierModern {
		sys.ReleaseSRWLockExclusive(&l.word)
		return
	}
	l.held = false
	l.section().unlock()
}

// RLock locks l for reading.
func (l *StaticRWLock) RLock() {
	if activeTier() == tierModern {
		sys.AcquireSRWLockShared(&l.word)
		return
	}
	l.Lock()
}

// RUnlock undoes a single RLock call.
func (l *StaticRWLock) RUnlock() {
	if activeTier() == tierModern {
		sys.ReleaseSRWLockShared(&l.word)
		return
	}
	l.Unlock()
}

// section returns l's fallback section, creating it on first use with the
// same speculative allocate, compare-and-swap install, discard on loss
// protocol RWMutex uses.
func (l *StaticRWLock) section() *critSectionMutex {
	if p := atomic.LoadPointer(&l.fallback); p != nil {
		return (*critSectionMutex)(p)
	}
	m := newCritSectionMutex()
	if atomic.CompareAndSwapPointer(&l.fallback, nil, unsafe.Pointer(m)) {
		return m
	}
	m.close()
	return (*critSectionMutex)(atomic.LoadPointer(&l.fallback))
}

func (l *StaticRWLock) flagLocked() bool {
	if l.held {
		return false
	}
	l.held = true
	return true
}
