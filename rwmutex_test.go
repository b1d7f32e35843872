// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRWMutexZeroValue(t *testing.T) {
	eachTier(t, allTiers, func(t *testing.T) {
		a := assert.New(t)
		var rw RWMutex
		rw.Lock()
		rw.Unlock()
		rw.RLock()
		rw.RUnlock()
		a.True(rw.TryLock())
		rw.Unlock()
		a.True(rw.TryRLock())
		rw.RUnlock()
		a.NoError(rw.Close())
	})
}

func TestRWMutexWriteThenRead(t *testing.T) {
	eachTier(t, allTiers, func(t *testing.T) {
		a := assert.New(t)
		var rw RWMutex
		rw.Lock()
		rw.Unlock()
		rw.RLock()
		rw.RUnlock()
		// the full sequence must leave the lock immediately available.
		a.True(rw.TryLock())
		rw.Unlock()
		a.NoError(rw.Close())
	})
}

func TestRWMutexSharedReaders(t *testing.T) {
	// only the modern tier has real shared readers.
	eachTier(t, []tier{tierModern}, func(t *testing.T) {
		a := assert.New(t)
		var rw RWMutex
		rw.RLock()
		second := make(chan struct{})
		go pinned(func() {
			rw.RLock()
			rw.RUnlock()
			close(second)
		})
		select {
		case <-second:
		case <-time.After(5 * time.Second):
			t.Fatal("a second reader was blocked")
		}
		tried := make(chan bool)
		go pinned(func() { tried <- rw.TryLock() })
		a.False(<-tried)
		rw.RUnlock()
		a.NoError(rw.Close())
	})
}

func TestRWMutexFallbackExcludesReaders(t *testing.T) {
	eachTier(t, fallbackTiers, func(t *testing.T) {
		a := assert.New(t)
		var rw RWMutex
		rw.RLock()
		tried := make(chan bool)
		go pinned(func() { tried <- rw.TryRLock() })
		a.False(<-tried)
		rw.RUnlock()
		a.NoError(rw.Close())
	})
}

func TestRWMutexFallbackSingleInstall(t *testing.T) {
	eachTier(t, fallbackTiers, func(t *testing.T) {
		a := assert.New(t)
		var rw RWMutex
		const workers = 8
		var start, wg sync.WaitGroup
		start.Add(1)
		locks := make(chan *Mutex, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				start.Wait()
				locks <- rw.fallbackLock()
			}()
		}
		start.Done()
		wg.Wait()
		first := <-locks
		for i := 1; i < workers; i++ {
			a.Same(first, <-locks)
		}
		a.NoError(rw.Close())
	})
}

func TestRWMutexCloseUnused(t *testing.T) {
	eachTier(t, fallbackTiers, func(t *testing.T) {
		a := assert.New(t)
		var rw RWMutex
		a.NoError(rw.Close())
	})
}
