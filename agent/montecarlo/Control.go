package montecarlo

import (
	"fmt"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/agent/policy"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
)

// Control learns action values and an improving greedy policy from
// episodes generated by an ε-greedy behaviour policy. The greedy
// policy is re-derived for a state immediately after each update of
// its action values.
type Control struct {
	agent.Base
	g         *grid.Spec
	env       *gridworld.GridWorld
	starter   environment.Starter
	config    ControlConfig
	q         *table.ActionValue
	counts    *table.Counts
	policy    *table.Policy
	behaviour *policy.EGreedy
	episodes  int
	truncated int
}

// NewControl returns a new Control solver under model m
func NewControl(m environment.Model, c ControlConfig) (*Control, error) {
	if err := agent.Validate(c); err != nil {
		return nil, fmt.Errorf("newControl: %w", err)
	}

	g := m.Spec()
	var starter environment.Starter = environment.NewSingleStarter(g.Start())
	if c.ExploringStarts && g.Size() > 1 {
		starter = environment.NewExploringStarter(g,
			c.Seed+agent.StarterStream)
	}

	env, _ := gridworld.New(m, starter, environment.NewStepLimit(c.MaxSteps),
		c.Discount, c.Seed+agent.EnvStream)

	q := table.NewActionValue(g.N())
	behaviour, err := policy.NewEGreedy(q, c.Epsilon,
		c.Seed+agent.BehaviourStream)
	if err != nil {
		return nil, fmt.Errorf("newControl: %w", err)
	}

	return &Control{
		Base:      agent.NewBase(),
		g:         g,
		env:       env,
		starter:   starter,
		config:    c,
		q:         q,
		counts:    table.NewCounts(g.N()),
		policy:    q.GreedyPolicy(g),
		behaviour: behaviour,
	}, nil
}

// Episode generates and learns from a single episode, then decays the
// exploration rate
func (c *Control) Episode() (ret float64, steps int, truncated bool,
	err error) {
	ep, err := agent.Sample(c.env, c.starter.Start(), c.behaviour)
	if err != nil {
		return 0, 0, false, fmt.Errorf("episode: %w", err)
	}

	firstVisits(ep, c.config.Discount,
		func(s grid.State, a grid.Action, g float64) {
			n := c.counts.Increment(s, a)
			c.q.Add(s, a, (g-c.q.At(s, a))/float64(n))
			c.policy.Set(s, c.q.Greedy(s))
		})

	c.behaviour.Decay(c.config.EpsilonDecay, c.config.MinEpsilon)
	c.episodes++
	if ep.Truncated() {
		c.truncated++
	}
	return ep.Return(c.config.Discount), ep.Len(), ep.Truncated(), nil
}

// Run learns from the configured number of episodes and returns the
// number of episodes performed
func (c *Control) Run() (int, error) {
	c.SetStatus(agent.Sampling)

	for i := 1; i <= c.config.Episodes; i++ {
		epsilon := c.behaviour.Epsilon()
		ret, steps, truncated, err := c.Episode()
		if err != nil {
			return i - 1, fmt.Errorf("run: %w", err)
		}

		c.Logger().Debug().
			Int("episode", i).
			Float64("return", ret).
			Int("steps", steps).
			Float64("epsilon", epsilon).
			Bool("truncated", truncated).
			Msg("monte carlo control episode")
		c.Notify(func() agent.Snapshot {
			return agent.Snapshot{
				Iteration: i,
				Epsilon:   epsilon,
				Return:    ret,
				Steps:     steps,
				Truncated: truncated,
				Values:    c.q.StateValues(c.g),
				Policy:    c.policy.Clone(),
			}
		})
	}

	c.SetStatus(agent.BudgetExhausted)
	if c.truncated > 0 {
		c.Logger().Warn().
			Int("episodes", c.truncated).
			Int("max_steps", c.config.MaxSteps).
			Msg("episodes truncated by the step budget, action values " +
				"are biased")
	}
	return c.config.Episodes, nil
}

// Values returns the value of acting greedily in every state
func (c *Control) Values() *table.Value {
	return c.q.StateValues(c.g)
}

// Policy returns a copy of the current greedy policy
func (c *Control) Policy() *table.Policy {
	return c.policy.Clone()
}

// ActionValues returns a copy of the current action values
func (c *Control) ActionValues() *table.ActionValue {
	return c.q.Clone()
}

// Epsilon returns the current exploration rate
func (c *Control) Epsilon() float64 {
	return c.behaviour.Epsilon()
}

// Truncated returns the number of episodes cut off by the step budget
func (c *Control) Truncated() int {
	return c.truncated
}
