package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusTrackerStartsInStartingPhase(t *testing.T) {
	s := newStatusTracker()
	assert.Equal(t, PhaseStarting, s.Snapshot().Phase)
}

func TestStatusTrackerTransitionsThroughColdScanPhases(t *testing.T) {
	s := newStatusTracker()
	s.SetPhase(PhaseParsing)
	assert.Equal(t, PhaseParsing, s.Snapshot().Phase)

	s.SetPhase(PhaseBuildingGraph)
	assert.Equal(t, PhaseBuildingGraph, s.Snapshot().Phase)

	now := time.Now()
	s.MarkColdScanComplete(now)
	snap := s.Snapshot()
	assert.Equal(t, PhaseComplete, snap.Phase)
	assert.WithinDuration(t, now, snap.LastColdScanAt, time.Millisecond)
}

func TestStatusTrackerStaleCountNeverGoesNegative(t *testing.T) {
	s := newStatusTracker()
	s.AddStale(3)
	assert.Equal(t, 3, s.Snapshot().StaleFileCount)
	s.AddStale(-10)
	assert.Equal(t, 0, s.Snapshot().StaleFileCount)
}
