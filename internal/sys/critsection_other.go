// Copyright 2017 Aleksandr Demakin. All rights reserved.

//go:build !windows
// +build !windows

package sys

import "sync"

// CriticalSection is the portable rendition of the native section object.
// Like its native counterpart it is recursion-capable for the owner, which
// is a goroutine here instead of a thread.
type CriticalSection struct {
	state uintptr
}

type sectionState struct {
	mu       sync.Mutex
	released *sync.Cond
	owner    int64
	depth    int
}

func newSectionState() *sectionState {
	s := &sectionState{}
	s.released = sync.NewCond(&s.mu)
	return s
}

// Init initializes the section. It must be called once before any other call.
func (cs *CriticalSection) Init() {
	cs.state = uintptr(registerObject(newSectionState()))
}

func (cs *CriticalSection) get() *sectionState {
	return lookupObject(Handle(cs.state)).(*sectionState)
}

// Enter acquires the section, recursively for the owning goroutine.
func (cs *CriticalSection) Enter() {
	s, id := cs.get(), goid()
	s.mu.Lock()
	if s.owner == id {
		s.depth++
		s.mu.Unlock()
		return
	}
	for s.depth > 0 {
		s.released.Wait()
	}
	s.owner, s.depth = id, 1
	s.mu.Unlock()
}

// TryEnter tries to acquire the section without blocking.
func (cs *CriticalSection) TryEnter() bool {
	s, id := cs.get(), goid()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth > 0 && s.owner != id {
		return false
	}
	s.owner = id
	s.depth++
	return true
}

// Leave releases the section once. Leaving a section the caller does not
// own is undefined, as it is for the native object.
func (cs *CriticalSection) Leave() {
	s := cs.get()
	s.mu.Lock()
	s.depth--
	if s.depth == 0 {
		s.owner = 0
		s.released.Signal()
	}
	s.mu.Unlock()
}

// Delete releases the section's resources. The section must not be used after.
func (cs *CriticalSection) Delete() {
	CloseHandle(Handle(cs.state))
	cs.state = 0
}
