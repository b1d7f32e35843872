// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"fmt"
	"sync"
)

func ExampleMutex() {
	m := NewMutex()
	defer m.Close()
	var shared int
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Lock()
				shared++
				m.Unlock()
			}
		}()
	}
	wg.Wait()
	fmt.Println(shared)
	// Output: 8000
}

func ExampleCond() {
	m, c := NewMutex(), NewCond()
	defer func() {
		c.Close()
		m.Close()
	}()
	ready := false
	go func() {
		m.Lock()
		ready = true
		m.Unlock()
		c.Broadcast()
	}()
	m.Lock()
	// waits are allowed to wake spuriously, always recheck the predicate.
	for !ready {
		c.Wait(m)
	}
	m.Unlock()
	fmt.Println("ready")
	// Output: ready
}
