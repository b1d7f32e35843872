// Copyright 2017 Aleksandr Demakin. All rights reserved.

package sys

import (
	"os"
	"syscall"
	"time"
	"unsafe"

	"github.com/nxgtw/go-winsync/internal/allocator"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const cERROR_TIMEOUT = syscall.Errno(1460)

// All entry points are resolved lazily, as some of them are missing on older
// systems. A proc, whose Find() fails, must never be called; callers decide
// what to call via HasTryAcquireSRWLockExclusive and HasTryEnterCriticalSection.
var (
	modkernel32 = windows.NewLazyDLL("kernel32.dll")

	procAcquireSRWLockExclusive    = modkernel32.NewProc("AcquireSRWLockExclusive")
	procTryAcquireSRWLockExclusive = modkernel32.NewProc("TryAcquireSRWLockExclusive")
	procReleaseSRWLockExclusive    = modkernel32.NewProc("ReleaseSRWLockExclusive")
	procAcquireSRWLockShared       = modkernel32.NewProc("AcquireSRWLockShared")
	procTryAcquireSRWLockShared    = modkernel32.NewProc("TryAcquireSRWLockShared")
	procReleaseSRWLockShared       = modkernel32.NewProc("ReleaseSRWLockShared")
	procSleepConditionVariableSRW  = modkernel32.NewProc("SleepConditionVariableSRW")
	procWakeConditionVariable      = modkernel32.NewProc("WakeConditionVariable")
	procWakeAllConditionVariable   = modkernel32.NewProc("WakeAllConditionVariable")

	procInitializeCriticalSection = modkernel32.NewProc("InitializeCriticalSection")
	procEnterCriticalSection      = modkernel32.NewProc("EnterCriticalSection")
	procTryEnterCriticalSection   = modkernel32.NewProc("TryEnterCriticalSection")
	procLeaveCriticalSection      = modkernel32.NewProc("LeaveCriticalSection")
	procDeleteCriticalSection     = modkernel32.NewProc("DeleteCriticalSection")

	procCreateMutex  = modkernel32.NewProc("CreateMutexW")
	procReleaseMutex = modkernel32.NewProc("ReleaseMutex")
	procPulseEvent   = modkernel32.NewProc("PulseEvent")
)

// HasTryAcquireSRWLockExclusive reports whether slim reader/writer locks are
// fully usable. TryAcquireSRWLockExclusive appeared later, than the rest of
// the SRW family, so it is the entry point to probe for.
func HasTryAcquireSRWLockExclusive() bool {
	return procTryAcquireSRWLockExclusive.Find() == nil
}

// HasTryEnterCriticalSection reports whether TryEnterCriticalSection exists.
// Critical sections themselves exist everywhere.
func HasTryEnterCriticalSection() bool {
	return procTryEnterCriticalSection.Find() == nil
}

func waitMillis(timeout time.Duration) uint32 {
	if timeout < 0 {
		return windows.INFINITE
	}
	ms := timeout.Nanoseconds() / 1e6
	// saturate: a wrapped conversion would turn a huge wait into an
	// instant poll, or into INFINITE one millisecond below the wrap.
	if ms >= int64(windows.INFINITE) {
		return windows.INFINITE - 1
	}
	return uint32(ms)
}

// AcquireSRWLockExclusive acquires the lock at p in exclusive mode.
// p points to a word holding the native lock's bit pattern, zero when free.
func AcquireSRWLockExclusive(p *uintptr) {
	procAcquireSRWLockExclusive.Call(uintptr(unsafe.Pointer(p)))
	allocator.Use(unsafe.Pointer(p))
}

// TryAcquireSRWLockExclusive tries to acquire the lock at p in exclusive mode.
func TryAcquireSRWLockExclusive(p *uintptr) bool {
	r1, _, _ := procTryAcquireSRWLockExclusive.Call(uintptr(unsafe.Pointer(p)))
	allocator.Use(unsafe.Pointer(p))
	return r1 != 0
}

// ReleaseSRWLockExclusive releases a lock held in exclusive mode.
func ReleaseSRWLockExclusive(p *uintptr) {
	procReleaseSRWLockExclusive.Call(uintptr(unsafe.Pointer(p)))
	allocator.Use(unsafe.Pointer(p))
}

// AcquireSRWLockShared acquires the lock at p in shared mode.
func AcquireSRWLockShared(p *uintptr) {
	procAcquireSRWLockShared.Call(uintptr(unsafe.Pointer(p)))
	allocator.Use(unsafe.Pointer(p))
}

// TryAcquireSRWLockShared tries to acquire the lock at p in shared mode.
func TryAcquireSRWLockShared(p *uintptr) bool {
	r1, _, _ := procTryAcquireSRWLockShared.Call(uintptr(unsafe.Pointer(p)))
	allocator.Use(unsafe.Pointer(p))
	return r1 != 0
}

// ReleaseSRWLockShared releases a lock held in shared mode.
func ReleaseSRWLockShared(p *uintptr) {
	procReleaseSRWLockShared.Call(uintptr(unsafe.Pointer(p)))
	allocator.Use(unsafe.Pointer(p))
}

// SleepConditionVariableSRW atomically releases the exclusively held lock at
// lock and waits on the condition variable at cv, relocking before return.
// It returns false, if the wait timed out.
func SleepConditionVariableSRW(cv, lock *uintptr, timeout time.Duration) (bool, error) {
	r1, _, err := procSleepConditionVariableSRW.Call(
		uintptr(unsafe.Pointer(cv)),
		uintptr(unsafe.Pointer(lock)),
		uintptr(waitMillis(timeout)),
		0)
	allocator.Use(unsafe.Pointer(cv))
	allocator.Use(unsafe.Pointer(lock))
	if r1 != 0 {
		return true, nil
	}
	if err == cERROR_TIMEOUT {
		return false, nil
	}
	return false, os.NewSyscallError("SleepConditionVariableSRW", err)
}

// WakeConditionVariable wakes one waiter of the condition variable at cv.
func WakeConditionVariable(cv *uintptr) {
	procWakeConditionVariable.Call(uintptr(unsafe.Pointer(cv)))
	allocator.Use(unsafe.Pointer(cv))
}

// WakeAllConditionVariable wakes all waiters of the condition variable at cv.
func WakeAllConditionVariable(cv *uintptr) {
	procWakeAllConditionVariable.Call(uintptr(unsafe.Pointer(cv)))
	allocator.Use(unsafe.Pointer(cv))
}

// CriticalSection mirrors the layout of the native CRITICAL_SECTION struct.
// The object is self-referential at the os level and must not be moved,
// while initialized.
type CriticalSection struct {
	debugInfo      uintptr
	lockCount      int32
	recursionCount int32
	owningThread   uintptr
	lockSemaphore  uintptr
	spinCount      uintptr
}

// Init initializes the section. It must be called once before any other call.
func (cs *CriticalSection) Init() {
	procInitializeCriticalSection.Call(uintptr(unsafe.Pointer(cs)))
	allocator.Use(unsafe.Pointer(cs))
}

// Enter acquires the section, recursively for the owning thread.
func (cs *CriticalSection) Enter() {
	procEnterCriticalSection.Call(uintptr(unsafe.Pointer(cs)))
	allocator.Use(unsafe.Pointer(cs))
}

// TryEnter tries to acquire the section without blocking.
// It must not be called, if HasTryEnterCriticalSection returns false.
func (cs *CriticalSection) TryEnter() bool {
	r1, _, _ := procTryEnterCriticalSection.Call(uintptr(unsafe.Pointer(cs)))
	allocator.Use(unsafe.Pointer(cs))
	return r1 != 0
}

// Leave releases the section once.
func (cs *CriticalSection) Leave() {
	procLeaveCriticalSection.Call(uintptr(unsafe.Pointer(cs)))
	allocator.Use(unsafe.Pointer(cs))
}

// Delete releases the section's resources. The section must not be used after.
func (cs *CriticalSection) Delete() {
	procDeleteCriticalSection.Call(uintptr(unsafe.Pointer(cs)))
	allocator.Use(unsafe.Pointer(cs))
}

// CreateEvent creates an anonymous event object.
func CreateEvent(manualReset, initialState bool) (Handle, error) {
	var mr, is uint32
	if manualReset {
		mr = 1
	}
	if initialState {
		is = 1
	}
	h, err := windows.CreateEvent(nil, mr, is, nil)
	if h == 0 {
		return 0, os.NewSyscallError("CreateEvent", err)
	}
	return Handle(h), nil
}

// PulseEvent wakes all threads currently waiting on the event and leaves it
// in the non-signaled state.
func PulseEvent(h Handle) error {
	r1, _, err := procPulseEvent.Call(uintptr(h))
	if r1 == 0 {
		return os.NewSyscallError("PulseEvent", err)
	}
	return nil
}

// CreateMutex creates an anonymous kernel mutex object, not owned by the caller.
func CreateMutex() (Handle, error) {
	h, _, err := procCreateMutex.Call(0, 0, 0)
	if h == 0 {
		return 0, os.NewSyscallError("CreateMutex", err)
	}
	return Handle(h), nil
}

// ReleaseMutex releases a kernel mutex held by the calling thread.
func ReleaseMutex(h Handle) error {
	r1, _, err := procReleaseMutex.Call(uintptr(h))
	if r1 == 0 {
		return os.NewSyscallError("ReleaseMutex", err)
	}
	return nil
}

// WaitForObject waits until the object is signaled, or the timeout elapses.
// It returns false, if the wait timed out. Any other non-success wait state,
// including abandonment, is an error.
func WaitForObject(h Handle, timeout time.Duration) (bool, error) {
	ev, err := windows.WaitForSingleObject(windows.Handle(h), waitMillis(timeout))
	switch ev {
	case windows.WAIT_OBJECT_0:
		return true, nil
	case windows.WAIT_TIMEOUT:
		return false, nil
	default:
		if err != nil {
			return false, os.NewSyscallError("WaitForSingleObject", err)
		}
		return false, errors.Errorf("invalid wait state for an object: %d", ev)
	}
}

// CloseHandle closes an event or mutex handle.
func CloseHandle(h Handle) error {
	return windows.CloseHandle(windows.Handle(h))
}
