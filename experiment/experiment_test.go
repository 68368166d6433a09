package experiment

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridmdp/agent/policy"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/examples"
	"github.com/samuelfneumann/gridmdp/experiment/tracker"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
	ts "github.com/samuelfneumann/gridmdp/timestep"
)

var _ Experiment = (*Online)(nil)

func newEnv(m environment.Model, limit int) *gridworld.GridWorld {
	g := m.Spec()
	env, _ := gridworld.New(m, environment.NewSingleStarter(g.Start()),
		environment.NewStepLimit(limit), 1.0, 7)
	return env
}

func TestFollowDeterministic(t *testing.T) {
	g := examples.Simple()
	env := newEnv(environment.NewDeterministic(g), 100)

	path, err := Follow(env, policy.NewTabular(examples.SimplePolicy()))
	require.NoError(t, err)

	assert.Equal(t, []grid.State{
		{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2},
		{Row: 1, Col: 2}, {Row: 0, Col: 2},
	}, path.States)
	assert.Equal(t, 4, path.Len())
	assert.Equal(t, 7.0, path.Total())
	assert.Equal(t, 1.75, path.Efficiency())
	assert.True(t, path.Reached())
}

func TestFollowImproperPolicyTruncates(t *testing.T) {
	g := examples.Simple()
	env := newEnv(environment.NewDeterministic(g), 5)

	path, err := Follow(env, policy.NewTabular(table.NewPolicy(g.N(),
		grid.West)))
	require.NoError(t, err)
	assert.False(t, path.Reached())
	assert.Equal(t, ts.Timeout, path.End)
	assert.Equal(t, 5, path.Len())
	assert.Equal(t, -5.0, path.Total())
}

func TestAnalyze(t *testing.T) {
	paths := []Path{
		{Rewards: []float64{-1, 10}, End: ts.TerminalStateReached},
		{Rewards: []float64{-1, -1, -1, 10}, End: ts.TerminalStateReached},
		{Rewards: []float64{-1, -1}, End: ts.Timeout},
	}

	perf := Analyze(paths)
	assert.Equal(t, 3, perf.Episodes)
	assert.InDelta(t, (9.0+7-2)/3, perf.MeanReturn, 1e-12)
	assert.Greater(t, perf.StdReturn, 0.0)
	assert.InDelta(t, 8.0/3, perf.MeanLength, 1e-12)
	assert.InDelta(t, 2.0/3, perf.SuccessRate, 1e-12)
	assert.InDelta(t, (4.5+1.75-1)/3, perf.Efficiency, 1e-12)

	single := Analyze(paths[:1])
	assert.Equal(t, 0.0, single.StdReturn)
	assert.Panics(t, func() { Analyze(nil) })
}

func TestOnlineWindyRollouts(t *testing.T) {
	g := examples.Standard()
	m, err := environment.NewWindy(g, environment.WindTask())
	require.NoError(t, err)

	dir := t.TempDir()
	ret := tracker.NewReturn(filepath.Join(dir, "return.bin"))
	length := tracker.NewEpisodeLength(filepath.Join(dir, "length.bin"))

	o := NewOnline(newEnv(m, 200),
		policy.NewTabular(examples.StandardPolicy()), 50, ret)
	o.Register(length)
	require.NoError(t, o.Run())
	require.NoError(t, o.Save())

	paths := o.Paths()
	require.Len(t, paths, 50)
	returns, err := tracker.LoadData(filepath.Join(dir, "return.bin"))
	require.NoError(t, err)
	lengths, err := tracker.LoadData(filepath.Join(dir, "length.bin"))
	require.NoError(t, err)

	for i, p := range paths {
		assert.Equal(t, g.Start(), p.States[0])
		assert.Equal(t, len(p.States), p.Len()+1)
		assert.InDelta(t, p.Total(), returns[i], 1e-9)
		assert.Equal(t, float64(p.Len()), lengths[i])
	}

	perf := o.Performance()
	assert.Equal(t, 50, perf.Episodes)
	assert.GreaterOrEqual(t, perf.SuccessRate, 0.0)
	assert.LessOrEqual(t, perf.SuccessRate, 1.0)
}
