// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"runtime"
	"testing"
)

var (
	allTiers      = []tier{tierModern, tierIntermediate, tierLegacy}
	fallbackTiers = []tier{tierIntermediate, tierLegacy}
	staticTiers   = []tier{tierModern, tierIntermediate}
)

// withTier runs f with the process tier forced to forced. Real callers never
// get to do this, the decision is made once; tests may, as long as every
// primitive is both created and used under the same forced value.
func withTier(forced tier, f func()) {
	saved := activeTier()
	curTier.t = forced
	defer func() { curTier.t = saved }()
	f()
}

// eachTier runs the test once per requested tier. A tier richer, than the
// detected one, means the host lacks its facilities, so it is skipped.
// Kernel objects are owned by os threads, so the test goroutine is kept on
// one of them for the whole run.
func eachTier(t *testing.T, tiers []tier, f func(t *testing.T)) {
	for _, tr := range tiers {
		tr := tr
		t.Run(tr.String(), func(t *testing.T) {
			if tr < activeTier() {
				t.Skipf("%v facilities are unavailable on this host", tr)
			}
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			withTier(tr, func() { f(t) })
		})
	}
}

// pinned runs f wired to one os thread; test goroutines locking and
// unlocking must not migrate between threads.
func pinned(f func()) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	f()
}
