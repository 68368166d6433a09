package environment

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/grid"
	"gonum.org/v1/gonum/stat/distuv"
)

// Outcome is one possible successor of a (state, action) pair
type Outcome struct {
	Probability float64
	Next        grid.State
}

// Model maps a (state, action) pair to the distribution over successor
// states. The probabilities of the returned outcomes sum to 1, and the
// terminal state is absorbing. Outcomes that land on the same state
// are not merged, so exact expectations must sum over every outcome.
//
// Rewards are not part of a Model, they are looked up with
// grid.Spec.TransitionReward.
//
// Outcomes panics if the action is not a member of the action
// enumeration.
type Model interface {
	Outcomes(s grid.State, a grid.Action) []Outcome
	Spec() *grid.Spec
}

// Sample draws a successor of (s, a) from the distribution of m using
// the given source of randomness
func Sample(m Model, s grid.State, a grid.Action, src rand.Source) grid.State {
	outcomes := m.Outcomes(s, a)
	if len(outcomes) == 1 {
		return outcomes[0].Next
	}

	weights := make([]float64, len(outcomes))
	for i, o := range outcomes {
		weights[i] = o.Probability
	}
	dist := distuv.NewCategorical(weights, src)
	return outcomes[int(dist.Rand())].Next
}

// Expectation returns the probability weighted sum of f over the
// outcomes of (s, a)
func Expectation(m Model, s grid.State, a grid.Action,
	f func(next grid.State) float64) float64 {
	total := 0.0
	for _, o := range m.Outcomes(s, a) {
		total += o.Probability * f(o.Next)
	}
	return total
}

func absorbing(g *grid.Spec) []Outcome {
	return []Outcome{{Probability: 1.0, Next: g.Terminal()}}
}
