package montecarlo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/agent/dp"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/examples"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
	"github.com/samuelfneumann/gridmdp/timestep"
)

func exact(t *testing.T, m environment.Model, p *table.Policy) *table.Value {
	t.Helper()
	c := dp.DefaultEvaluationConfig()
	c.Threshold = 1e-8
	v, err := dp.Evaluate(m, p, c)
	require.NoError(t, err)
	return v
}

func TestFirstVisitsWalksBackward(t *testing.T) {
	a := grid.State{Row: 0, Col: 0}
	b := grid.State{Row: 0, Col: 1}
	ep := timestep.Episode{Transitions: []timestep.Transition{
		{State: a, Action: grid.East, Reward: 1, Next: b},
		{State: b, Action: grid.West, Reward: 2, Next: a},
		{State: a, Action: grid.East, Reward: 3, Next: b},
		{State: b, Action: grid.South, Reward: 4},
	}}

	type update struct {
		s grid.State
		a grid.Action
		g float64
	}
	var got []update
	firstVisits(ep, 0.5, func(s grid.State, a grid.Action, g float64) {
		got = append(got, update{s, a, g})
	})

	// G: 4, 3 + 0.5*4 = 5, 2 + 0.5*5 = 4.5, 1 + 0.5*4.5 = 3.25. The
	// pair (a, East) is credited once, where the backward walk first
	// meets it.
	assert.Equal(t, []update{
		{b, grid.South, 4},
		{a, grid.East, 5},
		{b, grid.West, 4.5},
	}, got)
}

func TestPredictionMatchesExactEvaluation(t *testing.T) {
	g := examples.Simple()
	m := environment.NewDeterministic(g)
	p := examples.SimplePolicy()

	c := DefaultPredictionConfig()
	c.Sweeps = 20
	mc, err := NewPrediction(m, p, c)
	require.NoError(t, err)

	sweeps, err := mc.Run()
	require.NoError(t, err)
	assert.Equal(t, 20, sweeps)
	assert.Equal(t, agent.BudgetExhausted, mc.Status())
	assert.Zero(t, mc.Truncated())
	assert.Less(t, mc.Values().MaxDiff(exact(t, m, p)), 0.5)
}

func TestPredictionWindyNearExactEvaluation(t *testing.T) {
	g := examples.Simple()
	m, err := environment.NewWindy(g, environment.WindTask())
	require.NoError(t, err)
	p := examples.SimplePolicy()

	c := DefaultPredictionConfig()
	c.Sweeps = 500
	c.Seed = 11
	mc, err := NewPrediction(m, p, c)
	require.NoError(t, err)
	_, err = mc.Run()
	require.NoError(t, err)

	// Revisits are credited with the return after their last
	// occurrence, which excludes loops back through the state and
	// biases the estimate slightly upward
	assert.Less(t, mc.Values().MaxDiff(exact(t, m, p)), 0.75)
}

func TestPredictionKeepsTerminalFixed(t *testing.T) {
	g := examples.Simple()
	mc, err := NewPrediction(environment.NewDeterministic(g),
		examples.SimplePolicy(), DefaultPredictionConfig())
	require.NoError(t, err)

	mc.Register(agent.ObserverFunc(func(s agent.Snapshot) {
		require.Equal(t, g.Reward(g.Terminal()), s.Values.At(g.Terminal()))
	}))
	_, err = mc.Run()
	require.NoError(t, err)
}

func TestPredictionTruncationBias(t *testing.T) {
	g := examples.Simple()

	// West in every cell never reaches the goal, so every episode runs
	// out its step budget and the return is cut short
	p := table.NewPolicy(g.N(), grid.West)
	c := DefaultPredictionConfig()
	c.Sweeps = 3
	c.MaxSteps = 10

	mc, err := NewPrediction(environment.NewDeterministic(g), p, c)
	require.NoError(t, err)
	_, err = mc.Run()
	require.NoError(t, err)

	assert.Equal(t, 3*len(g.NonTerminal()), mc.Truncated())

	// The true value of bumping forever is unbounded below, the
	// estimate is the truncated sum
	assert.Equal(t, -10.0, mc.Values().At(grid.State{Row: 2, Col: 2}))
}

func TestControlFindsGoal(t *testing.T) {
	g := examples.Simple()

	c := DefaultControlConfig()
	c.Episodes = 4000
	c.Epsilon = 0.3
	c.EpsilonDecay = 0.999
	c.MinEpsilon = 0.05
	c.ExploringStarts = true
	c.Seed = 5

	mc, err := NewControl(environment.NewDeterministic(g), c)
	require.NoError(t, err)

	var epsilons []float64
	mc.Register(agent.ObserverFunc(func(s agent.Snapshot) {
		epsilons = append(epsilons, s.Epsilon)
	}))

	episodes, err := mc.Run()
	require.NoError(t, err)
	assert.Equal(t, c.Episodes, episodes)
	assert.Equal(t, agent.BudgetExhausted, mc.Status())
	assert.Equal(t, 0.05, mc.Epsilon())
	assert.Equal(t, 0.3, epsilons[0])
	assert.Less(t, epsilons[len(epsilons)-1], epsilons[0])

	// The greedy policy must lead from the start to the goal in four
	// moves
	policy := mc.Policy()
	s, total := g.Start(), 0.0
	for steps := 0; !g.IsTerminal(s); steps++ {
		require.Less(t, steps, 4, "greedy policy takes a detour")
		next := g.Move(s, policy.At(s))
		total += g.TransitionReward(s, next)
		s = next
	}
	assert.GreaterOrEqual(t, total, 6.0)

	assert.Equal(t, g.Reward(g.Terminal()), mc.Values().At(g.Terminal()))
	q := mc.ActionValues()
	for _, s := range g.NonTerminal() {
		assert.Equal(t, q.Greedy(s), policy.At(s))
	}
}

func TestControlStartsFromOwnStream(t *testing.T) {
	g := examples.Standard()

	c := DefaultControlConfig()
	c.ExploringStarts = true
	c.Seed = 11

	mc, err := NewControl(environment.NewDeterministic(g), c)
	require.NoError(t, err)

	own := environment.NewExploringStarter(g, c.Seed+agent.StarterStream)
	shared := environment.NewExploringStarter(g, c.Seed+agent.EnvStream)

	var got, want, env []grid.State
	for i := 0; i < 20; i++ {
		got = append(got, mc.starter.Start())
		want = append(want, own.Start())
		env = append(env, shared.Start())
	}
	assert.Equal(t, want, got)
	assert.NotEqual(t, env, got)
}

func TestInvalidConfig(t *testing.T) {
	m := environment.NewDeterministic(examples.Simple())

	pc := DefaultPredictionConfig()
	pc.MaxSteps = 0
	_, err := NewPrediction(m, examples.SimplePolicy(), pc)
	assert.ErrorIs(t, err, agent.ErrInvalidConfig)

	cc := DefaultControlConfig()
	cc.EpsilonDecay = 0
	_, err = NewControl(m, cc)
	assert.ErrorIs(t, err, agent.ErrInvalidConfig)
}
