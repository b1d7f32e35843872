// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import "github.com/nxgtw/go-winsync/internal/sys"

// srwMutex is the modern backend: a slim lock used in exclusive mode only.
// The zero word is a valid unlocked lock, nothing is allocated and nothing
// needs to be destroyed; the word may be moved, while the lock is not held.
type srwMutex struct {
	word uintptr
}

func (m *srwMutex) lock() {
	sys.AcquireSRWLockExclusive(&m.word)
}

func (m *srwMutex) tryLock() bool {
	return sys.TryAcquireSRWLockExclusive(&m.word)
}

func (m *srwMutex) unlock() {
	sys.ReleaseSRWLockExclusive(&m.word)
}

func (m *srwMutex) close() error {
	return nil
}
