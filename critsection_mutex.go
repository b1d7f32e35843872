// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import "github.com/nxgtw/go-winsync/internal/sys"

// critSectionMutex is the intermediate backend. The section object is
// self-referential at the os level and must not move after Init, so it is
// only ever used behind this boxed wrapper.
type critSectionMutex struct {
	cs sys.CriticalSection
}

func newCritSectionMutex() *critSectionMutex {
	m := &critSectionMutex{}
	m.cs.Init()
	return m
}

func (m *critSectionMutex) lock() {
	m.cs.Enter()
}

func (m *critSectionMutex) tryLock() bool {
	return m.cs.TryEnter()
}

func (m *critSectionMutex) unlock() {
	m.cs.Leave()
}

func (m *critSectionMutex) close() error {
	m.cs.Delete()
	return nil
}
