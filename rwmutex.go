// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"sync/atomic"
	"unsafe"

	"github.com/nxgtw/go-winsync/internal/sys"
)

// RWMutex is a reader/writer lock, safe to move, while no goroutine uses it.
// The zero value is an unlocked lock on every tier.
//
// On the modern tier it is a native slim lock with real shared readers. On
// the fallback tiers read and write both acquire a single lazily created
// exclusive Mutex, so readers exclude each other; the degradation is the
// price of running on hosts without a native reader/writer primitive. The
// fallback also inherits the Mutex recursion rule: a second read lock by the
// holder panics instead of deadlocking quietly.
type RWMutex struct {
	word     uintptr        // the native lock's bit pattern on the modern tier
	fallback unsafe.Pointer // *Mutex, installed on first use by the other tiers
}

// RLock locks rw for reading.
func (rw *RWMutex) RLock() {
	if activeTier() == tierModern {
		sys.AcquireSRWLockShared(&rw.word)
		return
	}
	rw.fallbackLock().Lock()
}

// TryRLock tries to lock rw for reading and reports whether it succeeded.
func (rw *RWMutex) TryRLock() bool {
	if activeTier() == tierModern {
		return sys.TryAcquireSRWLockShared(&rw.word)
	}
	return rw.fallbackLock().TryLock()
}

// RUnlock undoes a single RLock call.
func (rw *RWMutex) RUnlock() {
	if activeTier() == tierModern {
		sys.ReleaseSRWLockShared(&rw.word)
		return
	}
	rw.fallbackLock().Unlock()
}

// Lock locks rw for writing.
func (rw *RWMutex) Lock() {
	if activeTier() == tierModern {
		sys.AcquireSRWLockExclusive(&rw.word)
		return
	}
	rw.fallbackLock().Lock()
}

// TryLock tries to lock rw for writing and reports whether it succeeded.
func (rw *RWMutex) TryLock() bool {
	if activeTier() == tierModern {
		return sys.TryAcquireSRWLockExclusive(&rw.word)
	}
	return rw.fallbackLock().TryLock()
}

// Unlock undoes a single Lock call.
func (rw *RWMutex) Unlock() {
	if activeTier() == tierModern {
		sys.ReleaseSRWLockExclusive(&rw.word)
		return
	}
	rw.fallbackLock().Unlock()
}

// Close destroys the lazily created fallback lock, if one was ever
// installed; otherwise, and always on the modern tier, it is a no-op. It
// must be called at most once, and must not race any use of the lock.
func (rw *RWMutex) Close() error {
	if activeTier() == tierModern {
		return nil
	}
	p := atomic.LoadPointer(&rw.fallback)
	if p == nil {
		return nil
	}
	return (*Mutex)(p).Close()
}

// fallbackLock returns rw's exclusive fallback lock, creating it on first
// use. First users allocate speculatively, and a single compare-and-swap
// decides the retained one; a loser destroys its own allocation and goes on
// with the winner's. The instance therefore retains exactly one lock, no
// matter how many goroutines raced here.
func (rw *RWMutex) fallbackLock() *Mutex {
	if p := atomic.LoadPointer(&rw.fallback); p != nil {
		return (*Mutex)(p)
	}
	m := NewMutex()
	if atomic.CompareAndSwapPointer(&rw.fallback, nil, unsafe.Pointer(m)) {
		return m
	}
	m.Close()
	return (*Mutex)(atomic.LoadPointer(&rw.fallback))
}
