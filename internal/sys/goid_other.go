// Copyright 2017 Aleksandr Demakin. All rights reserved.

//go:build !windows
// +build !windows

package sys

import "runtime"

// goid returns the id of the calling goroutine. The emulated section and
// mutex objects use it for recursion ownership the same way the native
// objects use thread ids. Parsing runtime.Stack output is slow, but the
// emulated backends are not performance-critical.
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// the first line looks like "goroutine 123 [running]:".
	const prefix = "goroutine "
	if n < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}
	var id int64
	for _, c := range buf[len(prefix):n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
