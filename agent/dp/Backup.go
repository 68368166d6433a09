// Package dp implements the sweep based solvers of gridworld MDPs:
// iterative policy evaluation, value iteration and policy iteration.
//
// Every sweep is synchronous. Backups read the value table of the
// previous sweep and write into a new one, so the order in which
// states are visited does not affect the result.
package dp

import (
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
	"gonum.org/v1/gonum/floats"
)

// backup returns the value of moving from s to next: the reward of the
// move plus the discounted value of next. Entering the terminal state
// earns its reward only.
func backup(g *grid.Spec, v *table.Value, discount float64, s,
	next grid.State) float64 {
	r := g.TransitionReward(s, next)
	if g.IsTerminal(next) {
		return r
	}
	return r + discount*v.At(next)
}

// actionValue returns the expected backup of taking a in s
func actionValue(m environment.Model, v *table.Value, discount float64,
	s grid.State, a grid.Action) float64 {
	g := m.Spec()
	return environment.Expectation(m, s, a, func(next grid.State) float64 {
		return backup(g, v, discount, s, next)
	})
}

// greedy returns the action with the largest expected backup in s and
// its value. Ties go to the first action in enumeration order.
func greedy(m environment.Model, v *table.Value, discount float64,
	s grid.State) (grid.Action, float64) {
	values := make([]float64, grid.NumActions)
	for i, a := range grid.Actions {
		values[i] = actionValue(m, v, discount, s, a)
	}
	best := floats.MaxIdx(values)
	return grid.Actions[best], values[best]
}
