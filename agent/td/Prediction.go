// Package td implements temporal difference solvers for gridworld
// MDPs: one step TD prediction, n-step TD prediction and max-based TD
// control.
package td

import (
	"fmt"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
)

// Prediction estimates the value of a fixed policy with TD(0),
// updating the value of each state right after leaving it. An epoch
// runs one episode from every non-terminal state.
type Prediction struct {
	agent.Base
	g         *grid.Spec
	env       *gridworld.GridWorld
	config    PredictionConfig
	policy    *table.Policy
	values    *table.Value
	epochs    int
	truncated int
}

// NewPrediction returns a TD(0) Prediction solver for policy p under
// model m
func NewPrediction(m environment.Model, p *table.Policy,
	c PredictionConfig) (*Prediction, error) {
	if err := agent.Validate(c); err != nil {
		return nil, fmt.Errorf("newPrediction: %w", err)
	}
	if p.N() != m.Spec().N() {
		return nil, fmt.Errorf("newPrediction: policy is %dx%d but grid is "+
			"%dx%d", p.N(), p.N(), m.Spec().N(), m.Spec().N())
	}

	g := m.Spec()
	env := newEnv(m, environment.NewSingleStarter(g.Start()), c.MaxSteps,
		c.Discount, c.Seed)

	return &Prediction{
		Base:   agent.NewBase(),
		g:      g,
		env:    env,
		config: c,
		policy: p.Clone(),
		values: table.NewTerminalValue(g),
	}, nil
}

// Epoch runs one episode from every non-terminal state, updating the
// values online. It returns the summed return and length of the
// episodes and how many of them were truncated.
func (p *Prediction) Epoch() (ret float64, steps, truncated int, err error) {
	for _, start := range p.g.NonTerminal() {
		step, err := p.env.ResetTo(start)
		if err != nil {
			return ret, steps, truncated, fmt.Errorf("epoch: %w", err)
		}

		discount := 1.0
		for !step.Last() {
			s := step.Observation
			next, _, err := p.env.Step(p.policy.At(s))
			if err != nil {
				return ret, steps, truncated, fmt.Errorf("epoch: %w", err)
			}

			target := next.Reward
			if !p.g.IsTerminal(next.Observation) {
				target += p.config.Discount * p.values.At(next.Observation)
			}
			p.values.Add(s, p.config.LearningRate*(target-p.values.At(s)))

			ret += discount * next.Reward
			discount *= p.config.Discount
			steps++
			step = next
		}
		if step.Truncated() {
			truncated++
		}
	}

	p.epochs++
	p.truncated += truncated
	return ret, steps, truncated, nil
}

// Run performs the configured number of epochs and returns the number
// of epochs performed
func (p *Prediction) Run() (int, error) {
	p.SetStatus(agent.Sampling)

	for i := 1; i <= p.config.Epochs; i++ {
		ret, steps, truncated, err := p.Epoch()
		if err != nil {
			return i - 1, fmt.Errorf("run: %w", err)
		}

		p.Logger().Debug().
			Int("epoch", i).
			Float64("return", ret).
			Int("steps", steps).
			Int("truncated", truncated).
			Msg("td prediction epoch")
		p.Notify(func() agent.Snapshot {
			return agent.Snapshot{
				Iteration: i,
				Return:    ret,
				Steps:     steps,
				Truncated: truncated > 0,
				Values:    p.values.Clone(),
				Policy:    p.policy.Clone(),
			}
		})
	}

	p.SetStatus(agent.BudgetExhausted)
	warnTruncated(p.Logger(), p.truncated, p.config.MaxSteps)
	return p.config.Epochs, nil
}

// Values returns a copy of the current value estimates
func (p *Prediction) Values() *table.Value {
	return p.values.Clone()
}

// Policy returns a copy of the evaluated policy
func (p *Prediction) Policy() *table.Policy {
	return p.policy.Clone()
}

// Truncated returns the number of episodes cut off by the step budget
func (p *Prediction) Truncated() int {
	return p.truncated
}
