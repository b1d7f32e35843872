// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"github.com/nxgtw/go-winsync/internal/sys"

	"github.com/pkg/errors"
)

// legacyMutex is the oldest backend: a handle to a kernel mutex object.
// Slow, but available everywhere.
type legacyMutex struct {
	handle sys.Handle
}

func newLegacyMutex() *legacyMutex {
	h, err := sys.CreateMutex()
	if err != nil {
		panic(errors.Wrap(err, "winsync: failed to create a mutex object"))
	}
	return &legacyMutex{handle: h}
}

func (m *legacyMutex) lock() {
	if _, err := sys.WaitForObject(m.handle, sys.Infinite); err != nil {
		panic(errors.Wrap(err, "winsync: mutex lock failed"))
	}
}

func (m *legacyMutex) tryLock() bool {
	ok, err := sys.WaitForObject(m.handle, 0)
	if err != nil {
		panic(errors.Wrap(err, "winsync: mutex try lock failed"))
	}
	return ok
}

func (m *legacyMutex) unlock() {
	if err := sys.ReleaseMutex(m.handle); err != nil {
		panic(errors.Wrap(err, "winsync: mutex unlock failed"))
	}
}

func (m *legacyMutex) close() error {
	if m.handle == 0 {
		return nil
	}
	err := sys.CloseHandle(m.handle)
	m.handle = 0
	return err
}
