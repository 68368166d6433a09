package agent

import (
	"fmt"

	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/timestep"
)

// Sample generates one episode in env starting from start, selecting
// every action with p. The episode ends at the terminal state or when
// the environment's step budget runs out.
func Sample(env environment.Environment, start grid.State,
	p Policy) (timestep.Episode, error) {
	step, err := env.ResetTo(start)
	if err != nil {
		return timestep.Episode{}, fmt.Errorf("sample: %w", err)
	}

	var ep timestep.Episode
	for !step.Last() {
		a := p.SelectAction(step)
		next, _, err := env.Step(a)
		if err != nil {
			return ep, fmt.Errorf("sample: %w", err)
		}

		ep.Transitions = append(ep.Transitions, timestep.Transition{
			State:  step.Observation,
			Action: a,
			Reward: next.Reward,
			Next:   next.Observation,
		})
		step = next
	}
	ep.End = step.EndType

	return ep, nil
}
