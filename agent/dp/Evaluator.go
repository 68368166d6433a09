package dp

import (
	"fmt"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
)

// Evaluator computes the value of a fixed policy by iterating the
// Bellman expectation backup to its fixed point
type Evaluator struct {
	agent.Base
	model  environment.Model
	g      *grid.Spec
	config Config
	policy *table.Policy
	values *table.Value
	next   *table.Value // written by Sweep, then swapped with values
	sweeps int
}

// NewEvaluator returns an Evaluator of policy p under the model m.
// The policy is copied.
func NewEvaluator(m environment.Model, p *table.Policy,
	c EvaluationConfig) (*Evaluator, error) {
	if err := agent.Validate(c); err != nil {
		return nil, fmt.Errorf("newEvaluator: %w", err)
	}
	return newEvaluator(m, p, c.Config)
}

func newEvaluator(m environment.Model, p *table.Policy,
	c Config) (*Evaluator, error) {
	g := m.Spec()
	if p.N() != g.N() {
		return nil, fmt.Errorf("newEvaluator: policy is %dx%d but grid is "+
			"%dx%d", p.N(), p.N(), g.N(), g.N())
	}

	return &Evaluator{
		Base:   agent.NewBase(),
		model:  m,
		g:      g,
		config: c,
		policy: p.Clone(),
		values: table.NewTerminalValue(g),
		next:   table.NewTerminalValue(g),
	}, nil
}

// Sweep performs one synchronous sweep of the Bellman expectation
// backup over every non-terminal state and returns the largest
// absolute change in value
func (e *Evaluator) Sweep() float64 {
	next := e.next
	next.CopyFrom(e.values)
	for _, s := range e.g.NonTerminal() {
		next.Set(s, actionValue(e.model, e.values, e.config.Discount, s,
			e.policy.At(s)))
	}

	delta := next.MaxDiff(e.values)
	e.values, e.next = next, e.values
	e.sweeps++
	return delta
}

// Run sweeps until the value delta drops below the threshold and
// returns the number of sweeps performed
func (e *Evaluator) Run() (int, error) {
	e.SetStatus(agent.Sweeping)
	start := e.sweeps

	for {
		delta := e.Sweep()
		sweeps := e.sweeps - start

		e.Logger().Debug().
			Int("sweep", sweeps).
			Float64("delta", delta).
			Msg("policy evaluation sweep")
		e.Notify(func() agent.Snapshot {
			return agent.Snapshot{
				Iteration: sweeps,
				Delta:     delta,
				Values:    e.values.Clone(),
				Policy:    e.policy.Clone(),
			}
		})

		if delta < e.config.Threshold {
			e.SetStatus(agent.Converged)
			e.Logger().Info().
				Int("sweeps", sweeps).
				Msg("policy evaluation converged")
			return sweeps, nil
		}
		if e.config.MaxSweeps > 0 && sweeps >= e.config.MaxSweeps {
			e.SetStatus(agent.NotConverged)
			return sweeps, fmt.Errorf("run: policy evaluation %w after %d "+
				"sweeps (delta %v)", agent.ErrNotConverged, sweeps, delta)
		}
	}
}

// Values returns a copy of the current value table
func (e *Evaluator) Values() *table.Value {
	return e.values.Clone()
}

// Policy returns a copy of the evaluated policy
func (e *Evaluator) Policy() *table.Policy {
	return e.policy.Clone()
}

// Sweeps returns the total number of sweeps performed
func (e *Evaluator) Sweeps() int {
	return e.sweeps
}

// Evaluate returns the value of policy p under model m. It is a
// shorthand for constructing an Evaluator and running it.
func Evaluate(m environment.Model, p *table.Policy,
	c EvaluationConfig) (*table.Value, error) {
	e, err := NewEvaluator(m, p, c)
	if err != nil {
		return nil, err
	}
	_, err = e.Run()
	return e.Values(), err
}

// setPolicy replaces the evaluated policy, keeping the current values
// as the starting point of the next run
func (e *Evaluator) setPolicy(p *table.Policy) {
	e.policy = p.Clone()
}
