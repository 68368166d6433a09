package environment

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/grid"
	"gonum.org/v1/gonum/stat/distuv"
)

// SingleStarter always starts episodes in the same state
type SingleStarter struct {
	state grid.State
}

// NewSingleStarter returns a Starter that always returns s
func NewSingleStarter(s grid.State) SingleStarter {
	return SingleStarter{s}
}

// Start returns the starting state
func (s SingleStarter) Start() grid.State {
	return s.state
}

// CategoricalStarter samples starting states uniformly from a fixed set
// of states
type CategoricalStarter struct {
	states []grid.State
	rand   distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// uniformly over states
func NewCategoricalStarter(states []grid.State,
	seed uint64) *CategoricalStarter {
	if len(states) == 0 {
		panic("newCategoricalStarter: no states to start from")
	}

	weights := make([]float64, len(states))
	for i := range weights {
		weights[i] = 1.0 / float64(len(weights))
	}

	source := rand.NewSource(seed)
	return &CategoricalStarter{
		states: append([]grid.State(nil), states...),
		rand:   distuv.NewCategorical(weights, source),
	}
}

// NewExploringStarter returns a CategoricalStarter over every
// non-terminal state of g
func NewExploringStarter(g *grid.Spec, seed uint64) *CategoricalStarter {
	return NewCategoricalStarter(g.NonTerminal(), seed)
}

// Start returns a starting state
func (c *CategoricalStarter) Start() grid.State {
	return c.states[int(c.rand.Rand())]
}
