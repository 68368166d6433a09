package dp

import (
	"fmt"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
)

// ValueIteration computes the optimal value function and a greedy
// policy by iterating the Bellman optimality backup. No initial policy
// is needed.
type ValueIteration struct {
	agent.Base
	model  environment.Model
	g      *grid.Spec
	config Config
	policy *table.Policy
	values *table.Value
	sweeps int
}

// NewValueIteration returns a new ValueIteration solver under model m
func NewValueIteration(m environment.Model,
	c ValueIterationConfig) (*ValueIteration, error) {
	if err := agent.Validate(c); err != nil {
		return nil, fmt.Errorf("newValueIteration: %w", err)
	}

	g := m.Spec()
	return &ValueIteration{
		Base:   agent.NewBase(),
		model:  m,
		g:      g,
		config: c.Config,
		policy: table.NewPolicy(g.N(), grid.North),
		values: table.NewTerminalValue(g),
	}, nil
}

// Sweep performs one synchronous sweep of the Bellman optimality
// backup, updating both the values and the greedy policy, and returns
// the largest absolute change in value
func (v *ValueIteration) Sweep() float64 {
	next := v.values.Clone()
	for _, s := range v.g.NonTerminal() {
		a, value := greedy(v.model, v.values, v.config.Discount, s)
		next.Set(s, value)
		v.policy.Set(s, a)
	}

	delta := next.MaxDiff(v.values)
	v.values = next
	v.sweeps++
	return delta
}

// Run sweeps until the value delta drops below the threshold and
// returns the number of sweeps performed
func (v *ValueIteration) Run() (int, error) {
	v.SetStatus(agent.Sweeping)

	for {
		delta := v.Sweep()

		v.Logger().Debug().
			Int("sweep", v.sweeps).
			Float64("delta", delta).
			Msg("value iteration sweep")
		v.Notify(func() agent.Snapshot {
			return agent.Snapshot{
				Iteration: v.sweeps,
				Delta:     delta,
				Values:    v.values.Clone(),
				Policy:    v.policy.Clone(),
			}
		})

		if delta < v.config.Threshold {
			v.SetStatus(agent.Converged)
			v.Logger().Info().
				Int("sweeps", v.sweeps).
				Msg("value iteration converged")
			return v.sweeps, nil
		}
		if v.config.MaxSweeps > 0 && v.sweeps >= v.config.MaxSweeps {
			v.SetStatus(agent.NotConverged)
			return v.sweeps, fmt.Errorf("run: value iteration %w after %d "+
				"sweeps (delta %v)", agent.ErrNotConverged, v.sweeps, delta)
		}
	}
}

// Values returns a copy of the current value table
func (v *ValueIteration) Values() *table.Value {
	return v.values.Clone()
}

// Policy returns a copy of the current greedy policy
func (v *ValueIteration) Policy() *table.Policy {
	return v.policy.Clone()
}
