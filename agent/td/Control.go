package td

import (
	"fmt"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/agent/policy"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
)

// Control learns action values online with an ε-greedy behaviour
// policy. Each transition moves Q(s, a) toward the reward plus the
// discounted largest action value of the next state, so the learned
// values are those of the greedy policy regardless of the action the
// behaviour policy takes next.
type Control struct {
	agent.Base
	g         *grid.Spec
	env       *gridworld.GridWorld
	config    ControlConfig
	q         *table.ActionValue
	behaviour *policy.EGreedy
	episodes  int
	successes int
	truncated int
}

// NewControl returns a new TD Control solver under model m
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

	q := table.NewActionValue(g.N())
	behaviour, err := policy.NewEGreedy(q, c.Epsilon,
		c.Seed+agent.BehaviourStream)
	if err != nil {
		return nil, fmt.Errorf("newControl: %w", err)
	}

	env := newEnv(m, starter, c.MaxSteps, c.Discount,
		c.Seed+agent.EnvStream)

	return &Control{
		Base:      agent.NewBase(),
		g:         g,
		env:       env,
		config:    c,
		q:         q,
		behaviour: behaviour,
	}, nil
}

// Episode runs and learns from a single episode, then decays the
// exploration rate
func (c *Control) Episode() (ret float64, steps int, truncated bool,
	err error) {
	step := c.env.Reset()
	discount := 1.0

	for !step.Last() {
		s := step.Observation
		a := c.behaviour.SelectAction(step)
		next, _, err := c.env.Step(a)
		if err != nil {
			return ret, steps, false, fmt.Errorf("episode: %w", err)
		}

		target := next.Reward
		if !c.g.IsTerminal(next.Observation) {
			target += c.config.Discount * c.q.Max(next.Observation)
		}
		c.q.Add(s, a, c.config.LearningRate*(target-c.q.At(s, a)))

		ret += discount * next.Reward
		discount *= c.config.Discount
		steps++
		step = next
	}

	c.behaviour.Decay(c.config.EpsilonDecay, c.config.MinEpsilon)
	c.episodes++
	if step.Truncated() {
		c.truncated++
	} else {
		c.successes++
	}
	return ret, steps, step.Truncated(), nil
}

// Run learns from the configured number of episodes and returns the
// number of episodes performed
func (c *Control) Run() (int, error) {
	c.SetStatus(agent.Sampling)

	var total float64
	for i := 1; i <= c.config.Episodes; i++ {
		epsilon := c.behaviour.Epsilon()
		ret, steps, truncated, err := c.Episode()
		if err != nil {
			return i - 1, fmt.Errorf("run: %w", err)
		}
		total += ret

		c.Logger().Debug().
			Int("episode", i).
			Float64("return", ret).
			Int("steps", steps).
			Float64("epsilon", epsilon).
			Bool("truncated", truncated).
			Msg("td control episode")
		c.Notify(func() agent.Snapshot {
			return agent.Snapshot{
				Iteration: i,
				Epsilon:   epsilon,
				Return:    ret,
				Steps:     steps,
				Truncated: truncated,
				Values:    c.q.StateValues(c.g),
				Policy:    c.q.GreedyPolicy(c.g),
			}
		})
	}

	c.SetStatus(agent.BudgetExhausted)
	c.Logger().Info().
		Float64("avg_return", total/float64(c.config.Episodes)).
		Float64("success_rate", c.SuccessRate()).
		Float64("epsilon", c.behaviour.Epsilon()).
		Msg("td control finished")
	warnTruncated(c.Logger(), c.truncated, c.config.MaxSteps)
	return c.config.Episodes, nil
}

// Values returns the value of acting greedily in every state
func (c *Control) Values() *table.Value {
	return c.q.StateValues(c.g)
}

// Policy returns the greedy policy with respect to the current action
// values
func (c *Control) Policy() *table.Policy {
	return c.q.GreedyPolicy(c.g)
}

// ActionValues returns a copy of the current action values
func (c *Control) ActionValues() *table.ActionValue {
	return c.q.Clone()
}

// Epsilon returns the current exploration rate
func (c *Control) Epsilon() float64 {
	return c.behaviour.Epsilon()
}

// SuccessRate returns the fraction of episodes that reached the
// terminal state
func (c *Control) SuccessRate() float64 {
	if c.episodes == 0 {
		return 0
	}
	return float64(c.successes) / float64(c.episodes)
}

// Truncated returns the number of episodes cut off by the step budget
func (c *Control) Truncated() int {
	return c.truncated
}
