// Copyright 2017 Aleksandr Demakin. All rights reserved.

package winsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTier(t *testing.T) {
	a := assert.New(t)
	first := detectTier()
	a.Contains(allTiers, first)
	// probes are memoized, repeated detection converges to the same answer.
	a.Equal(first, detectTier())
	a.Equal(activeTier(), activeTier())
}

func TestTierString(t *testing.T) {
	a := assert.New(t)
	a.Equal("modern", tierModern.String())
	a.Equal("intermediate", tierIntermediate.String())
	a.Equal("legacy", tierLegacy.String())
	a.Equal("unknown", tier(42).String())
}
