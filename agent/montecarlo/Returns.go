// Package montecarlo implements first-visit Monte Carlo prediction and
// control on gridworld MDPs. Successor states are sampled from the
// transition model rather than enumerated.
package montecarlo

import (
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/timestep"
)

type visit struct {
	state  grid.State
	action grid.Action
}

// firstVisits walks ep backward accumulating the discounted return G
// and calls update once for each (state, action) pair, at the first
// time the backward walk meets it
func firstVisits(ep timestep.Episode, discount float64,
	update func(s grid.State, a grid.Action, g float64)) {
	seen := make(map[visit]struct{}, len(ep.Transitions))
	g := 0.0

	for i := len(ep.Transitions) - 1; i >= 0; i-- {
		tr := ep.Transitions[i]
		g = discount*g + tr.Reward

		v := visit{tr.State, tr.Action}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		update(tr.State, tr.Action, g)
	}
}
