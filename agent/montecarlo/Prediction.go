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

// Prediction estimates the value of a fixed policy by averaging the
// returns observed at first visits. Each sweep generates one episode
// from every non-terminal state.
type Prediction struct {
	agent.Base
	g         *grid.Spec
	env       *gridworld.GridWorld
	config    PredictionConfig
	policy    *table.Policy
	behaviour agent.Policy
	values    *table.Value
	counts    *table.Counts
	sweeps    int
	truncated int
}

// NewPrediction returns a Prediction solver for policy p under model m
func NewPrediction(m environment.Model, p *table.Policy,
	c PredictionConfig) (*Prediction, error) {
	if err := agent.Validate(c); err != nil {
		return nil, fmt.Errorf("newPrediction: %w", err)
	}

	g := m.Spec()
	if p.N() != g.N() {
		return nil, fmt.Errorf("newPrediction: policy is %dx%d but grid is "+
			"%dx%d", p.N(), p.N(), g.N(), g.N())
	}

	env, _ := gridworld.New(m, environment.NewSingleStarter(g.Start()),
		environment.NewStepLimit(c.MaxSteps), c.Discount, c.Seed)
	p = p.Clone()

	return &Prediction{
		Base:      agent.NewBase(),
		g:         g,
		env:       env,
		config:    c,
		policy:    p,
		behaviour: policy.NewTabular(p),
		values:    table.NewTerminalValue(g),
		counts:    table.NewCounts(g.N()),
	}, nil
}

// Sweep generates and learns from one episode starting in every
// non-terminal state. It returns the summed return and length of the
// episodes and how many of them were truncated.
func (p *Prediction) Sweep() (ret float64, steps, truncated int, err error) {
	for _, s := range p.g.NonTerminal() {
		ep, err := agent.Sample(p.env, s, p.behaviour)
		if err != nil {
			return ret, steps, truncated, fmt.Errorf("sweep: %w", err)
		}

		firstVisits(ep, p.config.Discount,
			func(s grid.State, a grid.Action, g float64) {
				n := p.counts.Increment(s, a)
				p.values.Add(s, (g-p.values.At(s))/float64(n))
			})

		ret += ep.Return(p.config.Discount)
		steps += ep.Len()
		if ep.Truncated() {
			truncated++
		}
	}

	p.sweeps++
	p.truncated += truncated
	return ret, steps, truncated, nil
}

// Run performs the configured number of sweeps and returns the number
// of sweeps performed
func (p *Prediction) Run() (int, error) {
	p.SetStatus(agent.Sampling)

	for i := 1; i <= p.config.Sweeps; i++ {
		ret, steps, truncated, err := p.Sweep()
		if err != nil {
			return i - 1, fmt.Errorf("run: %w", err)
		}

		p.Logger().Debug().
			Int("sweep", i).
			Float64("return", ret).
			Int("steps", steps).
			Int("truncated", truncated).
			Msg("monte carlo prediction sweep")
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
	if p.truncated > 0 {
		p.Logger().Warn().
			Int("episodes", p.truncated).
			Int("max_steps", p.config.MaxSteps).
			Msg("episodes truncated by the step budget, value estimates " +
				"are biased")
	}
	return p.config.Sweeps, nil
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
