// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCondSignalBeforeWaitIsNoop(t *testing.T) {
	eachTier(t, allTiers, func(t *testing.T) {
		a := assert.New(t)
		m, c := NewMutex(), NewCond()
		c.Signal()
		// the earlier signal must not satisfy a wait, which started after it.
		m.Lock()
		a.False(c.WaitTimeout(m, 100*time.Millisecond))
		m.Unlock()
		a.NoError(c.Close())
		a.NoError(m.Close())
	})
}

func TestCondSignalWakesWaiter(t *testing.T) {
	eachTier(t, allTiers, func(t *testing.T) {
		a := assert.New(t)
		m, c := NewMutex(), NewCond()
		ready := false
		done := make(chan struct{})
		go pinned(func() {
			m.Lock()
			for !ready {
				c.Wait(m)
			}
			m.Unlock()
			close(done)
		})
		m.Lock()
		ready = true
		m.Unlock()
		// resignal periodically: the emulated wait may miss a pulse sent
		// between its unlock and its wait registration.
		deadline := time.After(5 * time.Second)
		for {
			c.Signal()
			select {
			case <-done:
				a.NoError(c.Close())
				a.NoError(m.Close())
				return
			case <-deadline:
				t.Fatal("the waiter was not woken")
			case <-time.After(10 * time.Millisecond):
			}
		}
	})
}

func TestCondBroadcast(t *testing.T) {
	eachTier(t, allTiers, func(t *testing.T) {
		a := assert.New(t)
		m, c := NewMutex(), NewCond()
		const waiters = 4
		ready := false
		var wg sync.WaitGroup
		for i := 0; i < waiters; i++ {
			wg.Add(1)
			go pinned(func() {
				defer wg.Done()
				m.Lock()
				for !ready {
					c.Wait(m)
				}
				m.Unlock()
			})
		}
		m.Lock()
		ready = true
		m.Unlock()
		finished := make(chan struct{})
		go func() {
			wg.Wait()
			close(finished)
		}()
		deadline := time.After(5 * time.Second)
		for {
			c.Broadcast()
			select {
			case <-finished:
				a.NoError(c.Close())
				a.NoError(m.Close())
				return
			case <-deadline:
				t.Fatal("not all waiters were woken")
			case <-time.After(10 * time.Millisecond):
			}
		}
	})
}

func TestCondWaitTimeoutWoken(t *testing.T) {
	eachTier(t, allTiers, func(t *testing.T) {
		a := assert.New(t)
		m, c := NewMutex(), NewCond()
		ready := false
		woken := make(chan bool, 1)
		go pinned(func() {
			m.Lock()
			for !ready {
				if !c.WaitTimeout(m, 5*time.Second) {
					m.Unlock()
					woken <- false
					return
				}
			}
			m.Unlock()
			woken <- true
		})
		m.Lock()
		ready = true
		m.Unlock()
		deadline := time.After(5 * time.Second)
		for {
			c.Signal()
			select {
			case ok := <-woken:
				// the waiter must report woken, not timed out.
				a.True(ok)
				a.NoError(c.Close())
				a.NoError(m.Close())
				return
			case <-deadline:
				t.Fatal("the waiter was not woken")
			case <-time.After(10 * time.Millisecond):
			}
		}
	})
}

func TestCondWaitTimeout(t *testing.T) {
	eachTier(t, allTiers, func(t *testing.T) {
		a := assert.New(t)
		m, c := NewMutex(), NewCond()
		m.Lock()
		before := time.Now()
		a.False(c.WaitTimeout(m, 50*time.Millisecond))
		// windows timers are coarse, allow the wait to end a bit early.
		a.True(time.Since(before) >= 35*time.Millisecond)
		m.Unlock()
		a.NoError(c.Close())
		a.NoError(m.Close())
	})
}
