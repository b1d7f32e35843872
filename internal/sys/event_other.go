// Copyright 2017 Aleksandr Demakin. All rights reserved.

//go:build !windows
// +build !windows

package sys

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// eventState backs one emulated event object. Waiters block on the gate
// channel, which is closed to signal them and swapped to reset the event.
type eventState struct {
	mu     sync.Mutex
	manual bool
	set    bool
	gate   chan struct{}
}

// CreateEvent creates an anonymous event object.
func CreateEvent(manualReset, initialState bool) (Handle, error) {
	e := &eventState{manual: manualReset, set: initialState, gate: make(chan struct{})}
	if initialState {
		close(e.gate)
	}
	return registerObject(e), nil
}

func (e *eventState) wait(timeout time.Duration) (bool, error) {
	e.mu.Lock()
	if e.set {
		if !e.manual {
			e.set = false
			e.gate = make(chan struct{})
		}
		e.mu.Unlock()
		return true, nil
	}
	gate := e.gate
	e.mu.Unlock()
	if timeout < 0 {
		<-gate
		return true, nil
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-gate:
		return true, nil
	case <-t.C:
		return false, nil
	}
}

// PulseEvent wakes all threads currently waiting on the event and leaves it
// in the non-signaled state.
func PulseEvent(h Handle) error {
	e, ok := lookupObject(h).(*eventState)
	if !ok {
		return errors.Errorf("invalid handle: %d", h)
	}
	e.mu.Lock()
	// a signaled event's gate is already closed, and no one is behind it.
	if !e.set {
		close(e.gate)
	}
	e.gate = make(chan struct{})
	e.set = false
	e.mu.Unlock()
	return nil
}
