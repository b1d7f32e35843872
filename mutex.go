// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

// mutexBackend is what every per-tier exclusive lock provides.
type mutexBackend interface {
	lock()
	tryLock() bool
	unlock()
	close() error
}

// Mutex is an exclusive, non-reentrant lock.
//
// Recursive locking is always a programmer error. On the modern tier the
// native lock deadlocks on it; on the other tiers, whose native objects
// would silently let the owner in again, the mutex panics instead, so that
// the error does not pass unnoticed on any tier.
//
// On the legacy tier the kernel object is owned by the locking thread, so a
// goroutine using the mutex must stay wired to one os thread for the
// lock/unlock pair (see runtime.LockOSThread); goroutines migrate between
// threads otherwise.
//
// A Mutex must be created with NewMutex.
type Mutex struct {
	impl mutexBackend
	held bool // recursion detection on the tiers, whose backends tolerate it
}

// NewMutex creates a new mutex, ready for use. Failure to create the backing
// os object is fatal: a caller cannot proceed without the lock it asked for,
// so NewMutex panics instead of returning an error.
func NewMutex() *Mutex {
	m := &Mutex{}
	switch activeTier() {
	case tierModern:
		m.impl = new(srwMutex)
	case tierIntermediate:
		m.impl = newCritSectionMutex()
	default:
		m.impl = newLegacyMutex()
	}
	return m
}

// Lock locks m, blocking until it is available.
func (m *Mutex) Lock() {
	m.impl.lock()
	if activeTier() == tierModern {
		return
	}
	if !m.flagLocked() {
		m.impl.unlock()
		panic("winsync: recursive lock of a mutex")
	}
}

// TryLock tries to lock m without blocking and reports whether it succeeded.
// A recursive attempt by the current holder returns false.
func (m *Mutex) TryLock() bool {
	if activeTier() == tierModern {
		return m.impl.tryLock()
	}
	if !m.impl.tryLock() {
		return false
	}
	if m.flagLocked() {
		return true
	}
	m.impl.unlock()
	return false
}

// Unlock unlocks m. It must be locked by the caller.
func (m *Mutex) Unlock() {
	if activeTier() == tierModern {
		m.impl.unlock()
		return
	}
	m.held = false
	m.impl.unlock()
}

// Close releases the backing os object, if any. It must be called at most
// once, and must not race any use of the mutex.
func (m *Mutex) Close() error {
	return m.impl.close()
}

// raw returns the native lock word of the modern backend. Cond needs it for
// the single-call release-and-wait operation.
func (m *Mutex) raw() *uintptr {
	return &m.impl.(*srwMutex).word
}

func (m *Mutex) flagLocked() bool {
	if m.held {
		return false
	}
	m.held = true
	return true
}
