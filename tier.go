// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"sync"

	"github.com/nxgtw/go-winsync/internal/sys"
)

// tier is the capability level the host provides for locking. It is decided
// once, before the first primitive is built, and never changes afterwards:
// every primitive consults it on every operation, so mixing tiers within a
// process would corrupt the objects' state.
type tier int

const (
	// tierModern uses slim reader/writer locks and native condition variables.
	tierModern tier = iota
	// tierIntermediate uses critical sections and manual-reset events.
	tierIntermediate
	// tierLegacy uses kernel mutex objects and manual-reset events.
	tierLegacy
)

func (t tier) String() string {
	switch t {
	case tierModern:
		return "modern"
	case tierIntermediate:
		return "intermediate"
	case tierLegacy:
		return "legacy"
	}
	return "unknown"
}

var curTier struct {
	once sync.Once
	t    tier
}

// activeTier returns the process-wide tier, deciding it on the first call.
// go offers no guaranteed single-threaded startup phase, so the decision
// goes through an explicit once barrier instead of an init-order assumption.
func activeTier() tier {
	curTier.once.Do(func() { curTier.t = detectTier() })
	return curTier.t
}

// detectTier picks the richest tier the host supports. The probes are
// memoized by the facility layer, and concurrent first probes converge to
// the same answer.
func detectTier() tier {
	if sys.HasTryAcquireSRWLockExclusive() {
		return tierModern
	}
	if sys.HasTryEnterCriticalSection() {
		return tierIntermediate
	}
	return tierLegacy
}
