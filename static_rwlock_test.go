// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStaticRWLockLockUnlock(t *testing.T) {
	eachTier(t, staticTiers, func(t *testing.T) {
		var l StaticRWLock
		l.Lock()
		l.Unlock()
		l.RLock()
		l.RUnlock()
		l.Lock()
		l.Unlock()
	})
}

func TestStaticRWLockExcludesOthers(t *testing.T) {
	eachTier(t, staticTiers, func(t *testing.T) {
		var l StaticRWLock
		l.Lock()
		started := make(chan struct{})
		acquired := make(chan struct{})
		go pinned(func() {
			close(started)
			l.Lock()
			l.Unlock()
			close(acquired)
		})
		<-started
		select {
		case <-acquired:
			t.Fatal("the lock was not exclusive")
		case <-time.After(50 * time.Millisecond):
		}
		l.Unlock()
		select {
		case <-acquired:
		case <-time.After(5 * time.Second):
			t.Fatal("the lock was not released")
		}
	})
}

func TestStaticRWLockRecursionPanics(t *testing.T) {
	// the modern tier deadlocks natively, see TestMutexRecursiveLockPanics.
	eachTier(t, []tier{tierIntermediate}, func(t *testing.T) {
		a := assert.New(t)
		var l StaticRWLock
		l.Lock()
		a.Panics(l.Lock)
		a.Panics(l.RLock)
		l.Unlock()
		l.Lock()
		l.Unlock()
	})
}

func TestStaticRWLockSingleInstall(t *testing.T) {
	eachTier(t, []tier{tierIntermediate}, func(t *testing.T) {
		a := assert.New(t)
		var l StaticRWLock
		const workers = 8
		var start, wg sync.WaitGroup
		start.Add(1)
		sections := make(chan *critSectionMutex, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				start.Wait()
				sections <- l.section()
			}()
		}
		start.Done()
		wg.Wait()
		first := <-sections
		for i := 1; i < workers; i++ {
			a.Same(first, <-sections)
		}
	})
}

func TestStaticMutex(t *testing.T) {
	eachTier(t, staticTiers, func(t *testing.T) {
		var m StaticMutex
		m.Lock()
		m.Unlock()
		m.RLock()
		m.RUnlock()
	})
}
