package environment

import "github.com/samuelfneumann/gridmdp/grid"

// Deterministic is a Model in which every action moves the agent one
// cell in its direction. Moves into a wall leave the agent in place.
type Deterministic struct {
	g *grid.Spec
}

// NewDeterministic returns a new deterministic Model over g
func NewDeterministic(g *grid.Spec) *Deterministic {
	return &Deterministic{g}
}

// Outcomes returns the single successor of (s, a)
func (d *Deterministic) Outcomes(s grid.State, a grid.Action) []Outcome {
	if !a.Valid() {
		panic("outcomes: invalid action " + a.String())
	}
	if d.g.IsTerminal(s) {
		return absorbing(d.g)
	}
	return []Outcome{{Probability: 1.0, Next: d.g.Move(s, a)}}
}

// Spec returns the grid the model acts on
func (d *Deterministic) Spec() *grid.Spec {
	return d.g
}
