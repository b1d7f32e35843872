// Copyright 2017 Aleksandr Demakin. All rights reserved.

//go:build !windows
// +build !windows

package sys

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// mutexState backs one emulated kernel mutex object. The native object is
// recursion-capable for the owning thread; here the owner is a goroutine.
type mutexState struct {
	mu      sync.Mutex
	owner   int64
	depth   int
	waiters []chan struct{}
}

// CreateMutex creates an anonymous kernel mutex object, not owned by the caller.
func CreateMutex() (Handle, error) {
	return registerObject(&mutexState{}), nil
}

func (m *mutexState) wait(timeout time.Duration) (bool, error) {
	id := goid()
	var deadline <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}
	for {
		m.mu.Lock()
		if m.depth == 0 || m.owner == id {
			m.owner = id
			m.depth++
			m.mu.Unlock()
			return true, nil
		}
		w := make(chan struct{})
		m.waiters = append(m.waiters, w)
		m.mu.Unlock()
		select {
		case <-w:
		case <-deadline:
			return false, nil
		}
	}
}

// ReleaseMutex releases a kernel mutex held by the caller.
func ReleaseMutex(h Handle) error {
	m, ok := lookupObject(h).(*mutexState)
	if !ok {
		return errors.Errorf("invalid handle: %d", h)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.depth == 0 || m.owner != goid() {
		return errors.New("the caller does not own the mutex")
	}
	m.depth--
	if m.depth == 0 {
		m.owner = 0
		// every waiter retries; close-and-clear keeps release O(waiters)
		// without tracking which one wins.
		for _, w := range m.waiters {
			close(w)
		}
		m.waiters = nil
	}
	return nil
}
