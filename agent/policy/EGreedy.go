package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
	"github.com/samuelfneumann/gridmdp/timestep"
	"gonum.org/v1/gonum/stat/distuv"
)

// EGreedy implements an ε-greedy policy over a table of action values.
// With probability ε an action is chosen uniformly at random, and
// otherwise the greedy action is taken, ties going to the first action
// in enumeration order.
type EGreedy struct {
	values  *table.ActionValue
	epsilon float64
	source  rand.Source
	probs   []float64
	dist    distuv.Categorical
}

// NewEGreedy constructs a new EGreedy policy acting on q, where e is
// the probability with which a random action is selected. The table is
// not copied, so the policy follows later changes to q.
func NewEGreedy(q *table.ActionValue, e float64, seed uint64) (*EGreedy,
	error) {
	if e < 0 || e > 1 || math.IsNaN(e) {
		return nil, fmt.Errorf("newEGreedy: epsilon must be in [0, 1], "+
			"got %v", e)
	}

	source := rand.NewSource(seed)
	probs := make([]float64, grid.NumActions)
	probs[0] = 1
	return &EGreedy{
		values:  q,
		epsilon: e,
		source:  source,
		probs:   probs,
		dist:    distuv.NewCategorical(probs, source),
	}, nil
}

// SelectAction selects an action from the ε-greedy policy in the
// current state
func (p *EGreedy) SelectAction(t timestep.TimeStep) grid.Action {
	greedy := p.values.Greedy(t.Observation)
	if p.epsilon == 0 {
		return greedy
	}

	// Calculate the ε probability of choosing any action at random and
	// adjust the probability of choosing the greedy action
	prob := p.epsilon / float64(grid.NumActions)
	for i := range p.probs {
		p.probs[i] = prob
	}
	p.probs[greedy] += 1.0 - p.epsilon

	p.dist.ReweightAll(p.probs)
	return grid.Action(p.dist.Rand())
}

// Epsilon returns the current exploration rate
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// Decay multiplies the exploration rate by factor, never letting it
// drop below floor. An exploration rate already below floor is left
// unchanged.
func (p *EGreedy) Decay(factor, floor float64) {
	if p.epsilon <= floor {
		return
	}
	p.epsilon = math.Max(floor, p.epsilon*factor)
}
