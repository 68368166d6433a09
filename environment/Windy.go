package environment

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gridmdp/grid"
	"gonum.org/v1/gonum/floats"
)

// massTolerance is the allowed deviation of the summed outcome
// probabilities from 1
const massTolerance = 1e-9

// WindWeights are the probabilities of the six outcomes of a windy
// move. Left and Right name the lateral sides of the heading as given
// by grid.Action.Sides.
type WindWeights struct {
	Primary       float64 `mapstructure:"primary"`
	LeftDiagonal  float64 `mapstructure:"left_diagonal"`
	RightDiagonal float64 `mapstructure:"right_diagonal"`
	Left          float64 `mapstructure:"left"`
	Right         float64 `mapstructure:"right"`
	Stay          float64 `mapstructure:"stay"`
}

// WindTask returns the weights of a strong wind: the intended move
// succeeds with probability 0.72 and the rest of the mass is spread
// over the lateral drifts and staying in place.
func WindTask() WindWeights {
	return WindWeights{
		Primary:       0.72,
		LeftDiagonal:  0.08,
		RightDiagonal: 0.08,
		Left:          0.04,
		Right:         0.04,
		Stay:          0.04,
	}
}

// DriftTask composes weights from the probability that a move succeeds
// and the probabilities that it goes straight or drifts to either
// side. Successful moves advance in the heading, possibly drifting
// diagonally. Failed moves do not advance but may still be blown
// sideways.
func DriftTask(success, straight, left, right float64) WindWeights {
	failure := 1 - success
	return WindWeights{
		Primary:       success * straight,
		LeftDiagonal:  success * left,
		RightDiagonal: success * right,
		Left:          failure * left,
		Right:         failure * right,
		Stay:          failure * straight,
	}
}

// DefaultDrift returns DriftTask(0.9, 0.8, 0.1, 0.1)
func DefaultDrift() WindWeights {
	return DriftTask(0.9, 0.8, 0.1, 0.1)
}

// Slice returns the weights in outcome order
func (w WindWeights) Slice() []float64 {
	return []float64{w.Primary, w.LeftDiagonal, w.RightDiagonal, w.Left,
		w.Right, w.Stay}
}

// Validate returns an error if any weight is negative or the weights
// do not sum to 1
func (w WindWeights) Validate() error {
	ws := w.Slice()
	for _, p := range ws {
		if p < 0 || math.IsNaN(p) {
			return fmt.Errorf("validate: wind weights must be non-negative: "+
				"%v", ws)
		}
	}
	if sum := floats.Sum(ws); math.Abs(sum-1) > massTolerance {
		return fmt.Errorf("validate: wind weights sum to %v, expected 1", sum)
	}
	return nil
}

// Windy is a Model in which every move from a non-terminal state has
// six outcomes, in order: the intended move, the two diagonal drifts
// of the intended move, the two sideways drifts, and staying in place.
// Each coordinate of an outcome is clamped into the grid separately.
type Windy struct {
	g       *grid.Spec
	weights WindWeights
}

// NewWindy returns a new windy Model over g
func NewWindy(g *grid.Spec, w WindWeights) (*Windy, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("newWindy: %w", err)
	}
	return &Windy{g, w}, nil
}

// Outcomes returns the six successors of (s, a). Outcomes clamped onto
// the same cell are reported separately.
func (w *Windy) Outcomes(s grid.State, a grid.Action) []Outcome {
	if !a.Valid() {
		panic("outcomes: invalid action " + a.String())
	}
	if w.g.IsTerminal(s) {
		return absorbing(w.g)
	}

	dr, dc := a.Delta()
	left, right := a.Sides()
	lr, lc := left.Delta()
	rr, rc := right.Delta()

	at := func(row, col int) grid.State {
		return w.g.Clamp(s.Row+row, s.Col+col)
	}

	return []Outcome{
		{w.weights.Primary, at(dr, dc)},
		{w.weights.LeftDiagonal, at(dr+lr, dc+lc)},
		{w.weights.RightDiagonal, at(dr+rr, dc+rc)},
		{w.weights.Left, at(lr, lc)},
		{w.weights.Right, at(rr, rc)},
		{w.weights.Stay, s},
	}
}

// Weights returns the outcome weights of the model
func (w *Windy) Weights() WindWeights {
	return w.weights
}

// Spec returns the grid the model acts on
func (w *Windy) Spec() *grid.Spec {
	return w.g
}
