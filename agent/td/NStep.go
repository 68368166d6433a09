package td

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/agent/policy"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
	"github.com/samuelfneumann/gridmdp/timestep"
)

// NStep estimates the value of a fixed policy with n-step TD. Each
// episode is generated in full and then every state with n further
// steps recorded after it is moved toward its n-step return. The
// bootstrap values of one episode's updates all come from the values
// as they were before the episode.
type NStep struct {
	agent.Base
	g         *grid.Spec
	env       *gridworld.GridWorld
	config    NStepConfig
	policy    *table.Policy
	behaviour agent.Policy
	values    *table.Value
	truncated int
}

// NewNStep returns an n-step TD prediction solver for policy p under
// model m
func NewNStep(m environment.Model, p *table.Policy,
	c NStepConfig) (*NStep, error) {
	if err := agent.Validate(c); err != nil {
		return nil, fmt.Errorf("newNStep: %w", err)
	}
	if p.N() != m.Spec().N() {
		return nil, fmt.Errorf("newNStep: policy is %dx%d but grid is "+
			"%dx%d", p.N(), p.N(), m.Spec().N(), m.Spec().N())
	}

	g := m.Spec()
	env := newEnv(m, environment.NewSingleStarter(g.Start()), c.MaxSteps,
		c.Discount, c.Seed)
	p = p.Clone()

	return &NStep{
		Base:      agent.NewBase(),
		g:         g,
		env:       env,
		config:    c,
		policy:    p,
		behaviour: policy.NewTabular(p),
		values:    table.NewTerminalValue(g),
	}, nil
}

// Learn updates the values from one complete episode
func (n *NStep) Learn(ep timestep.Episode) {
	if ep.Len() == 0 {
		return
	}
	snapshot := n.values.Clone()
	steps := n.config.Steps
	discount := n.config.Discount

	// The visited states followed by the final state, which carries a
	// padding reward of 0
	states := make([]grid.State, 0, ep.Len()+1)
	rewards := make([]float64, 0, ep.Len()+1)
	for _, tr := range ep.Transitions {
		states = append(states, tr.State)
		rewards = append(rewards, tr.Reward)
	}
	final, _ := ep.Final()
	states = append(states, final)
	rewards = append(rewards, 0)

	bootstrap := func(s grid.State, k int) float64 {
		if n.g.IsTerminal(s) {
			return 0
		}
		return math.Pow(discount, float64(k)) * snapshot.At(s)
	}

	last := len(states) - steps
	for t := 0; t < last; t++ {
		g := 0.0
		for k := 0; k < steps; k++ {
			g += math.Pow(discount, float64(k)) * rewards[t+k]
		}
		g += bootstrap(states[t+steps], steps)
		n.update(states[t], g)
	}

	if !n.config.Truncate {
		return
	}
	for t := max(last, 0); t < ep.Len(); t++ {
		g := 0.0
		for k := t; k < ep.Len(); k++ {
			g += math.Pow(discount, float64(k-t)) * rewards[k]
		}
		g += bootstrap(final, ep.Len()-t)
		n.update(states[t], g)
	}
}

func (n *NStep) update(s grid.State, g float64) {
	n.values.Add(s, n.config.LearningRate*(g-n.values.At(s)))
}

// Epoch generates and learns from one episode starting in every
// non-terminal state. It returns the summed return and length of the
// episodes and how many of them were truncated.
func (n *NStep) Epoch() (ret float64, steps, truncated int, err error) {
	for _, s := range n.g.NonTerminal() {
		ep, err := agent.Sample(n.env, s, n.behaviour)
		if err != nil {
			return ret, steps, truncated, fmt.Errorf("epoch: %w", err)
		}
		n.Learn(ep)

		ret += ep.Return(n.config.Discount)
		steps += ep.Len()
		if ep.Truncated() {
			truncated++
		}
	}

	n.truncated += truncated
	return ret, steps, truncated, nil
}

// Run performs the configured number of epochs and returns the number
// of epochs performed
func (n *NStep) Run() (int, error) {
	n.SetStatus(agent.Sampling)

	for i := 1; i <= n.config.Epochs; i++ {
		ret, steps, truncated, err := n.Epoch()
		if err != nil {
			return i - 1, fmt.Errorf("run: %w", err)
		}

		n.Logger().Debug().
			Int("epoch", i).
			Int("n", n.config.Steps).
			Float64("return", ret).
			Int("steps", steps).
			Int("truncated", truncated).
			Msg("n-step td epoch")
		n.Notify(func() agent.Snapshot {
			return agent.Snapshot{
				Iteration: i,
				Return:    ret,
				Steps:     steps,
				Truncated: truncated > 0,
				Values:    n.values.Clone(),
				Policy:    n.policy.Clone(),
			}
		})
	}

	n.SetStatus(agent.BudgetExhausted)
	warnTruncated(n.Logger(), n.truncated, n.config.MaxSteps)
	return n.config.Epochs, nil
}

// Values returns a copy of the current value estimates
func (n *NStep) Values() *table.Value {
	return n.values.Clone()
}

// Policy returns a copy of the evaluated policy
func (n *NStep) Policy() *table.Policy {
	return n.policy.Clone()
}

// Truncated returns the number of episodes cut off by the step budget
func (n *NStep) Truncated() int {
	return n.truncated
}
