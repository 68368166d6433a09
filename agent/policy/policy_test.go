package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
	"github.com/samuelfneumann/gridmdp/timestep"
)

func at(s grid.State) timestep.TimeStep {
	return timestep.New(timestep.Mid, 0, 1, s, 1)
}

func TestTabularFollowsTable(t *testing.T) {
	p := table.NewPolicy(2, grid.South)
	tab := NewTabular(p)

	s := grid.State{Row: 0, Col: 1}
	assert.Equal(t, grid.South, tab.SelectAction(at(s)))

	p.Set(s, grid.West)
	assert.Equal(t, grid.West, tab.SelectAction(at(s)))
}

func TestGreedySelectsArgmax(t *testing.T) {
	q := table.NewActionValue(2)
	s := grid.State{Row: 1, Col: 0}
	q.Set(s, grid.East, 1)

	p, err := NewEGreedy(q, 0, 0)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.Equal(t, grid.East, p.SelectAction(at(s)))
	}
}

func TestEGreedyExplorationRate(t *testing.T) {
	q := table.NewActionValue(2)
	s := grid.State{Row: 1, Col: 1}
	q.Set(s, grid.South, 5)

	p, err := NewEGreedy(q, 0.4, 3)
	require.NoError(t, err)

	const samples = 40000
	counts := make([]int, grid.NumActions)
	for i := 0; i < samples; i++ {
		counts[p.SelectAction(at(s))]++
	}

	// Greedy action: (1 - ε) + ε/4, others: ε/4
	assert.InDelta(t, 0.7, float64(counts[grid.South])/samples, 0.02)
	for _, a := range []grid.Action{grid.North, grid.East, grid.West} {
		assert.InDelta(t, 0.1, float64(counts[a])/samples, 0.02)
	}
}

func TestEGreedyDecay(t *testing.T) {
	p, err := NewEGreedy(table.NewActionValue(2), 0.5, 0)
	require.NoError(t, err)

	p.Decay(0.5, 0.1)
	assert.Equal(t, 0.25, p.Epsilon())

	for i := 0; i < 10; i++ {
		p.Decay(0.5, 0.1)
	}
	assert.Equal(t, 0.1, p.Epsilon())

	low, err := NewEGreedy(table.NewActionValue(2), 0.05, 0)
	require.NoError(t, err)
	low.Decay(0.5, 0.1)
	assert.Equal(t, 0.05, low.Epsilon())
}

func TestNewEGreedyRejectsBadEpsilon(t *testing.T) {
	_, err := NewEGreedy(table.NewActionValue(2), 1.5, 0)
	assert.Error(t, err)
	_, err = NewEGreedy(table.NewActionValue(2), -0.1, 0)
	assert.Error(t, err)
}
