package dp

import (
	"fmt"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
)

// PolicyIteration alternates evaluating the current policy to
// convergence with a single greedy improvement sweep. It stops once
// an improvement leaves the policy unchanged or the greedy values
// differ from the evaluated ones by less than the threshold.
type PolicyIteration struct {
	agent.Base
	model        environment.Model
	g            *grid.Spec
	config       PolicyIterationConfig
	evaluator    *Evaluator
	policy       *table.Policy
	improvements int
}

// NewPolicyIteration returns a new PolicyIteration solver under model
// m starting from policy p. If p is nil the solver starts from
// table.TowardPolicy, which reaches the terminal state from every
// cell.
func NewPolicyIteration(m environment.Model, p *table.Policy,
	c PolicyIterationConfig) (*PolicyIteration, error) {
	if err := agent.Validate(c); err != nil {
		return nil, fmt.Errorf("newPolicyIteration: %w", err)
	}

	g := m.Spec()
	if p == nil {
		p = table.TowardPolicy(g)
	}
	eval, err := newEvaluator(m, p, c.Config)
	if err != nil {
		return nil, fmt.Errorf("newPolicyIteration: %w", err)
	}

	return &PolicyIteration{
		Base:      agent.NewBase(),
		model:     m,
		g:         g,
		config:    c,
		evaluator: eval,
		policy:    p.Clone(),
	}, nil
}

// Improve performs one greedy improvement sweep against the values of
// the last evaluation. It returns whether the policy changed and the
// largest absolute difference between the greedy and evaluated values.
func (p *PolicyIteration) Improve() (changed bool, delta float64) {
	values := p.evaluator.values
	previous := p.policy.Clone()
	for _, s := range p.g.NonTerminal() {
		a, value := greedy(p.model, values, p.config.Discount, s)

		if d := value - values.At(s); d > delta {
			delta = d
		} else if -d > delta {
			delta = -d
		}

		// Only switch actions on a strict improvement
		current := actionValue(p.model, values, p.config.Discount, s,
			p.policy.At(s))
		if a != p.policy.At(s) && value > current {
			p.policy.Set(s, a)
		}
	}

	p.improvements++
	changed = !previous.Equal(p.policy, p.g)
	p.evaluator.setPolicy(p.policy)
	return changed, delta
}

// Run alternates evaluation and improvement until the policy is
// stable and returns the number of improvement steps performed
func (p *PolicyIteration) Run() (int, error) {
	p.SetStatus(agent.Sweeping)
	p.evaluator.SetLogger(*p.Logger())
	start := p.improvements

	for {
		if _, err := p.evaluator.Run(); err != nil {
			p.SetStatus(agent.NotConverged)
			return p.improvements - start, fmt.Errorf("run: improvement "+
				"%d: %w", p.improvements-start+1, err)
		}

		changed, delta := p.Improve()
		steps := p.improvements - start

		p.Logger().Debug().
			Int("improvement", steps).
			Bool("changed", changed).
			Float64("delta", delta).
			Msg("policy improvement")
		p.Notify(func() agent.Snapshot {
			return agent.Snapshot{
				Iteration: steps,
				Delta:     delta,
				Values:    p.evaluator.Values(),
				Policy:    p.policy.Clone(),
			}
		})

		if !changed || delta < p.config.Threshold {
			if changed {
				// The improved policy differs from the evaluated one, so
				// evaluate it before reporting its values
				if _, err := p.evaluator.Run(); err != nil {
					p.SetStatus(agent.NotConverged)
					return steps, fmt.Errorf("run: %w", err)
				}
			}
			p.SetStatus(agent.Converged)
			p.Logger().Info().
				Int("improvements", steps).
				Int("sweeps", p.evaluator.Sweeps()).
				Msg("policy iteration converged")
			return steps, nil
		}
		if p.config.MaxImprovements > 0 && steps >= p.config.MaxImprovements {
			p.SetStatus(agent.NotConverged)
			return steps, fmt.Errorf("run: policy iteration %w after %d "+
				"improvements", agent.ErrNotConverged, steps)
		}
	}
}

// Values returns a copy of the values of the last evaluated policy
func (p *PolicyIteration) Values() *table.Value {
	return p.evaluator.Values()
}

// Policy returns a copy of the current policy
func (p *PolicyIteration) Policy() *table.Policy {
	return p.policy.Clone()
}
