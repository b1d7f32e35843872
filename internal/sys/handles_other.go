// Copyright 2017 Aleksandr Demakin. All rights reserved.

//go:build !windows
// +build !windows

package sys

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// On non-windows systems kernel objects are emulated in pure go.
// A Handle is an index into a process-global object table.

// waitable is an object WaitForObject can block on.
type waitable interface {
	wait(timeout time.Duration) (bool, error)
}

var objects = struct {
	sync.Mutex
	m    map[Handle]interface{}
	next Handle
}{m: make(map[Handle]interface{})}

func registerObject(obj interface{}) Handle {
	objects.Lock()
	defer objects.Unlock()
	objects.next++
	h := objects.next
	objects.m[h] = obj
	return h
}

func lookupObject(h Handle) interface{} {
	objects.Lock()
	defer objects.Unlock()
	return objects.m[h]
}

// WaitForObject waits until the object is signaled, or the timeout elapses.
// It returns false, if the wait timed out.
func WaitForObject(h Handle, timeout time.Duration) (bool, error) {
	obj, ok := lookupObject(h).(waitable)
	if !ok {
		return false, errors.Errorf("invalid handle: %d", h)
	}
	return obj.wait(timeout)
}

// CloseHandle closes an event or mutex handle.
func CloseHandle(h Handle) error {
	objects.Lock()
	defer objects.Unlock()
	if _, found := objects.m[h]; !found {
		return errors.Errorf("invalid handle: %d", h)
	}
	delete(objects.m, h)
	return nil
}
