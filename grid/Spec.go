// Package grid describes square gridworld MDP instances: the cells,
// their rewards, the start cell and the absorbing terminal cell.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpec is returned when a grid cannot be constructed from
// the given parameters
var ErrInvalidSpec = errors.New("invalid grid spec")

// State is a single cell of the grid
type State struct {
	Row, Col int
}

func (s State) String() string {
	return fmt.Sprintf("(%d, %d)", s.Row, s.Col)
}

// Spec is an immutable description of a gridworld MDP. The grid is
// N x N, each cell carries the reward received on entering it, and
// the terminal cell is absorbing.
type Spec struct {
	n        int
	rewards  []float64
	start    State
	terminal State
}

// New constructs a Spec from an n x n reward grid given in row major
// order
func New(n int, rewards [][]float64, start, terminal State) (*Spec, error) {
	if n <= 0 {
		return nil, fmt.Errorf("new: %w: size %d must be positive",
			ErrInvalidSpec, n)
	}
	if len(rewards) != n {
		return nil, fmt.Errorf("new: %w: expected %d reward rows, got %d",
			ErrInvalidSpec, n, len(rewards))
	}

	flat := make([]float64, 0, n*n)
	for i, row := range rewards {
		if len(row) != n {
			return nil, fmt.Errorf("new: %w: reward row %d has %d "+
				"columns, expected %d", ErrInvalidSpec, i, len(row), n)
		}
		for j, r := range row {
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return nil, fmt.Errorf("new: %w: reward at (%d, %d) is "+
					"not finite", ErrInvalidSpec, i, j)
			}
		}
		flat = append(flat, row...)
	}

	g := &Spec{n: n, rewards: flat, start: start, terminal: terminal}
	if !g.Contains(start) {
		return nil, fmt.Errorf("new: %w: start %v out of bounds",
			ErrInvalidSpec, start)
	}
	if !g.Contains(terminal) {
		return nil, fmt.Errorf("new: %w: terminal %v out of bounds",
			ErrInvalidSpec, terminal)
	}
	return g, nil
}

// N returns the side length of the grid
func (g *Spec) N() int { return g.n }

// Size returns the number of states in the grid
func (g *Spec) Size() int { return g.n * g.n }

// Start returns the designated start state
func (g *Spec) Start() State { return g.start }

// Terminal returns the absorbing terminal state
func (g *Spec) Terminal() State { return g.terminal }

// IsTerminal returns whether s is the terminal state
func (g *Spec) IsTerminal(s State) bool { return s == g.terminal }

// Contains returns whether s lies within the grid
func (g *Spec) Contains(s State) bool {
	return s.Row >= 0 && s.Row < g.n && s.Col >= 0 && s.Col < g.n
}

// Reward returns the reward received on entering s
func (g *Spec) Reward(s State) float64 {
	return g.rewards[g.Index(s)]
}

// TransitionReward returns the reward charged for moving from one
// state to the next. Bumping into a wall leaves the agent in place,
// and the agent is charged the reward of the cell it stays in.
func (g *Spec) TransitionReward(from, to State) float64 {
	if from == to {
		return g.Reward(from)
	}
	return g.Reward(to)
}

// Rewards returns a copy of the reward grid
func (g *Spec) Rewards() [][]float64 {
	out := make([][]float64, g.n)
	for i := range out {
		out[i] = append([]float64(nil), g.rewards[i*g.n:(i+1)*g.n]...)
	}
	return out
}

// Index returns the row major index of s. Index panics if s is not in
// the grid.
func (g *Spec) Index(s State) int {
	if !g.Contains(s) {
		panic(fmt.Sprintf("index: state %v out of bounds for %dx%d grid",
			s, g.n, g.n))
	}
	return s.Row*g.n + s.Col
}

// StateAt is the inverse of Index
func (g *Spec) StateAt(i int) State {
	return State{Row: i / g.n, Col: i % g.n}
}

// Clamp clips each coordinate of a cell independently into the grid
func (g *Spec) Clamp(row, col int) State {
	return State{Row: clamp(row, g.n), Col: clamp(col, g.n)}
}

// Move returns the state reached by taking a from s with no wind.
// Moves against a wall leave the agent in place.
func (g *Spec) Move(s State, a Action) State {
	dr, dc := a.Delta()
	return g.Clamp(s.Row+dr, s.Col+dc)
}

// States returns every state in row major order
func (g *Spec) States() []State {
	states := make([]State, g.Size())
	for i := range states {
		states[i] = g.StateAt(i)
	}
	return states
}

// NonTerminal returns every state except the terminal state in row
// major order
func (g *Spec) NonTerminal() []State {
	states := make([]State, 0, g.Size()-1)
	for _, s := range g.States() {
		if s != g.terminal {
			states = append(states, s)
		}
	}
	return states
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
