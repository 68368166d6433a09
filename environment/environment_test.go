package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/timestep"
)

func newGrid(t *testing.T, n int) *grid.Spec {
	t.Helper()
	rewards := make([][]float64, n)
	for i := range rewards {
		rewards[i] = make([]float64, n)
		for j := range rewards[i] {
			rewards[i][j] = -1
		}
	}
	rewards[0][n-1] = 10
	g, err := grid.New(n, rewards, grid.State{Row: n - 1}, grid.State{Col: n - 1})
	require.NoError(t, err)
	return g
}

func mass(outcomes []Outcome) float64 {
	total := 0.0
	for _, o := range outcomes {
		total += o.Probability
	}
	return total
}

func TestDeterministicSingleOutcome(t *testing.T) {
	g := newGrid(t, 3)
	m := NewDeterministic(g)

	for _, s := range g.NonTerminal() {
		for _, a := range grid.Actions {
			outcomes := m.Outcomes(s, a)
			require.Len(t, outcomes, 1)
			assert.Equal(t, 1.0, outcomes[0].Probability)
			assert.Equal(t, g.Move(s, a), outcomes[0].Next)
		}
	}
}

func TestDeterministicBoundaryBump(t *testing.T) {
	g := newGrid(t, 3)
	m := NewDeterministic(g)

	corner := grid.State{Row: 2, Col: 0}
	next := m.Outcomes(corner, grid.South)[0].Next
	assert.Equal(t, corner, next)
	assert.Equal(t, g.Reward(corner), g.TransitionReward(corner, next))
}

func TestTerminalIsAbsorbing(t *testing.T) {
	g := newGrid(t, 4)
	weights := []WindWeights{WindTask(), DefaultDrift()}

	models := []Model{NewDeterministic(g)}
	for _, w := range weights {
		windy, err := NewWindy(g, w)
		require.NoError(t, err)
		models = append(models, windy)
	}

	for _, m := range models {
		for _, a := range grid.Actions {
			assert.Equal(t,
				[]Outcome{{Probability: 1, Next: g.Terminal()}},
				m.Outcomes(g.Terminal(), a))
		}
	}
}

func TestWindyProbabilityMass(t *testing.T) {
	g := newGrid(t, 5)

	for name, w := range map[string]WindWeights{
		"wind":  WindTask(),
		"drift": DefaultDrift(),
	} {
		t.Run(name, func(t *testing.T) {
			m, err := NewWindy(g, w)
			require.NoError(t, err)

			for _, s := range g.NonTerminal() {
				for _, a := range grid.Actions {
					outcomes := m.Outcomes(s, a)
					assert.Len(t, outcomes, 6)
					assert.InDelta(t, 1.0, mass(outcomes), 1e-9)
				}
			}
		})
	}
}

func TestWindyNorthFromInterior(t *testing.T) {
	g := newGrid(t, 5)
	m, err := NewWindy(g, WindTask())
	require.NoError(t, err)

	s := grid.State{Row: 2, Col: 2}
	outcomes := m.Outcomes(s, grid.North)
	require.Len(t, outcomes, 6)
	assert.InDelta(t, 1.0, mass(outcomes), 1e-9)

	want := []grid.State{
		{Row: 1, Col: 2},
		{Row: 1, Col: 1},
		{Row: 1, Col: 3},
		{Row: 2, Col: 1},
		{Row: 2, Col: 3},
		{Row: 2, Col: 2},
	}
	largest := 0
	for i, o := range outcomes {
		assert.Equal(t, want[i], o.Next)
		if o.Probability > outcomes[largest].Probability {
			largest = i
		}
	}
	assert.Equal(t, 0, largest)
	assert.Equal(t, 0.72, outcomes[0].Probability)
}

func TestWindyDoesNotMergeClampedOutcomes(t *testing.T) {
	g := newGrid(t, 3)
	m, err := NewWindy(g, WindTask())
	require.NoError(t, err)

	corner := grid.State{Row: 2, Col: 0}
	outcomes := m.Outcomes(corner, grid.South)
	require.Len(t, outcomes, 6)

	stays := 0
	for _, o := range outcomes {
		if o.Next == corner {
			stays++
		}
	}
	// Straight south, the south-west diagonal, the west drift and the
	// explicit stay all clamp back onto the corner.
	assert.Equal(t, 4, stays)
	assert.InDelta(t, 1.0, mass(outcomes), 1e-9)
}

func TestDriftTaskComposition(t *testing.T) {
	w := DefaultDrift()
	assert.InDelta(t, 0.72, w.Primary, 1e-12)
	assert.InDelta(t, 0.09, w.LeftDiagonal, 1e-12)
	assert.InDelta(t, 0.09, w.RightDiagonal, 1e-12)
	assert.InDelta(t, 0.01, w.Left, 1e-12)
	assert.InDelta(t, 0.01, w.Right, 1e-12)
	assert.InDelta(t, 0.08, w.Stay, 1e-12)
	assert.NoError(t, w.Validate())
}

func TestNewWindyRejectsBadWeights(t *testing.T) {
	g := newGrid(t, 3)

	_, err := NewWindy(g, WindWeights{Primary: 0.5})
	assert.Error(t, err)

	_, err = NewWindy(g, WindWeights{Primary: 1.2, Stay: -0.2})
	assert.Error(t, err)
}

func TestInvalidActionPanics(t *testing.T) {
	g := newGrid(t, 3)
	windy, err := NewWindy(g, WindTask())
	require.NoError(t, err)

	for _, m := range []Model{NewDeterministic(g), windy} {
		assert.Panics(t, func() { m.Outcomes(g.Start(), grid.Action(9)) })
	}
}

func TestSampleFrequencies(t *testing.T) {
	g := newGrid(t, 5)
	m, err := NewWindy(g, WindTask())
	require.NoError(t, err)

	src := rand.NewSource(1)
	s := grid.State{Row: 2, Col: 2}
	const samples = 20000

	north := 0
	for i := 0; i < samples; i++ {
		if Sample(m, s, grid.North, src) == (grid.State{Row: 1, Col: 2}) {
			north++
		}
	}
	assert.InDelta(t, 0.72, float64(north)/samples, 0.02)
}

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(3)

	step := timestep.New(timestep.Mid, -1, 1, grid.State{}, 2)
	assert.False(t, limit.End(&step))
	assert.False(t, step.Last())

	step.Number = 3
	assert.True(t, limit.End(&step))
	assert.True(t, step.Last())
	assert.True(t, step.Truncated())

	unbounded := NewStepLimit(0)
	step = timestep.New(timestep.Mid, -1, 1, grid.State{}, 1000000)
	assert.False(t, unbounded.End(&step))
}

func TestCategoricalStarterCoversStates(t *testing.T) {
	g := newGrid(t, 3)
	starter := NewExploringStarter(g, 7)

	seen := make(map[grid.State]bool)
	for i := 0; i < 2000; i++ {
		s := starter.Start()
		require.False(t, g.IsTerminal(s))
		seen[s] = true
	}
	assert.Len(t, seen, g.Size()-1)
}
