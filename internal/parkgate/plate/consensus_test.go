package plate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hakizimana/parkgate/internal/parkgate/plate"
)

func TestConsensus_EmitsEveryThreeObservations(t *testing.T) {
	b := plate.NewConsensusBuffer(3)

	_, ok := b.Observe("RAB123C")
	assert.False(t, ok)
	_, ok = b.Observe("RAB123C")
	assert.False(t, ok)

	p, ok := b.Observe("RAB128C")
	assert.True(t, ok)
	assert.Equal(t, "RAB123C", p)

	// Buffer cleared: the next window starts from scratch.
	assert.Equal(t, 0, b.Len())
	_, ok = b.Observe("RAC456D")
	assert.False(t, ok)
}

func TestConsensus_MajorityWins(t *testing.T) {
	b := plate.NewConsensusBuffer(3)
	b.Observe("RAB120C")
	b.Observe("RAB123C")
	p, ok := b.Observe("RAB123C")
	assert.True(t, ok)
	assert.Equal(t, "RAB123C", p)
}

func TestConsensus_TieBreaksByFirstOccurrence(t *testing.T) {
	b := plate.NewConsensusBuffer(3)
	b.Observe("RAB111A")
	b.Observe("RAB222B")
	p, ok := b.Observe("RAB333C")
	assert.True(t, ok)
	assert.Equal(t, "RAB111A", p)
}

func TestConsensus_DefaultThreshold(t *testing.T) {
	b := plate.NewConsensusBuffer(0)
	b.Observe("RAB123C")
	b.Observe("RAB123C")
	_, ok := b.Observe("RAB123C")
	assert.True(t, ok)
}
