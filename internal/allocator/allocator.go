// Copyright 2017 Aleksandr Demakin. All rights reserved.

// Package allocator keeps go pointers alive across indirect system calls.
package allocator

import "unsafe"

// Use is a no-op, but the compiler cannot see that it is.
// Calling Use(p) ensures that p is kept live until that point,
// which is needed, when p's uintptr has been passed to a lazily
// resolved system call.
//
//go:noinline
func Use(unsafe.Pointer) {}
