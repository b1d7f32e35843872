// Copyright 2017 Aleksandr Demakin. All rights reserved.

// Package winsync provides synchronization primitives over the richest
// locking facilities the host os offers. Windows grew its locking api in
// steps, so the package probes the optional entry points once at startup
// and settles on one of three tiers:
//	modern - slim reader/writer locks and native condition variables
//	intermediate - critical sections and manual-reset events
//	legacy - kernel mutex objects and manual-reset events
// Whatever the tier, the primitives present a single api:
//	Mutex - exclusive, non-reentrant lock
//	ReentrantMutex - recursively lockable by its owner
//	Cond - wait/notify bound to a Mutex
//	RWMutex - movable reader/writer lock
//	StaticRWLock - fixed-address reader/writer lock
// Cross-tier differences, which cannot be hidden (reader degradation and
// over-notification on the fallback tiers, deadlock vs panic on recursive
// locking), are called out on the respective types.
// On systems other than windows all three facility families are emulated
// in pure go, which keeps the package portable and lets tests exercise
// every tier anywhere.
package winsync
