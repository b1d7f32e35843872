// Copyright 2017 Aleksandr Demakin. All rights reserved.

// Package sys exposes the native locking facilities the library is built on.
// Three facility families are provided:
//	slim reader/writer locks and condition variables bound to them,
//	critical sections and manual-reset events,
//	kernel mutex objects.
// On windows they are thin wrappers over kernel32, resolved lazily, so that
// the package loads on systems, where the newer families are missing.
// On other systems all three families are emulated in pure go, which keeps
// the package usable and testable everywhere.
package sys

import "time"

// Handle identifies a kernel object: an event or a mutex.
// Zero is never a valid handle.
type Handle uintptr

// Infinite can be passed to WaitForObject and SleepConditionVariableSRW
// to wait without a time limit. Any negative duration works the same way.
const Infinite = time.Duration(-1)
