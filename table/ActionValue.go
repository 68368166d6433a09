package table

import (
	"github.com/samuelfneumann/gridmdp/grid"
	"gonum.org/v1/gonum/floats"
)

// ActionValue maps each (state, action) pair of an n x n grid to a real
// value. Values are stored in a flat slice indexed by
// (row*n + col)*NumActions + action.
type ActionValue struct {
	n      int
	values []float64
}

// NewActionValue returns an ActionValue of zeros for an n x n grid
func NewActionValue(n int) *ActionValue {
	return &ActionValue{n, make([]float64, n*n*grid.NumActions)}
}

// At returns the value of taking a in s
func (q *ActionValue) At(s grid.State, a grid.Action) float64 {
	return q.values[q.index(s, a)]
}

// Set sets the value of taking a in s
func (q *ActionValue) Set(s grid.State, a grid.Action, value float64) {
	q.values[q.index(s, a)] = value
}

// Add adds delta to the value of taking a in s
func (q *ActionValue) Add(s grid.State, a grid.Action, delta float64) {
	q.values[q.index(s, a)] += delta
}

// Row returns the values of all actions in s in enumeration order. The
// returned slice aliases the table.
func (q *ActionValue) Row(s grid.State) []float64 {
	i := q.index(s, grid.North)
	return q.values[i : i+grid.NumActions : i+grid.NumActions]
}

// Greedy returns the action with the largest value in s. Ties go to
// the first action in enumeration order.
func (q *ActionValue) Greedy(s grid.State) grid.Action {
	return grid.Action(floats.MaxIdx(q.Row(s)))
}

// Max returns the largest action value in s
func (q *ActionValue) Max(s grid.State) float64 {
	return floats.Max(q.Row(s))
}

// Clone returns a deep copy of the table
func (q *ActionValue) Clone() *ActionValue {
	return &ActionValue{q.n, append([]float64(nil), q.values...)}
}

// N returns the side length of the grid the table covers
func (q *ActionValue) N() int {
	return q.n
}

// GreedyPolicy returns the greedy policy with respect to q
func (q *ActionValue) GreedyPolicy(g *grid.Spec) *Policy {
	p := NewPolicy(g.N(), grid.North)
	for _, s := range g.NonTerminal() {
		p.Set(s, q.Greedy(s))
	}
	return p
}

// StateValues returns the value of acting greedily with respect to q
// in every state. The terminal state holds its reward.
func (q *ActionValue) StateValues(g *grid.Spec) *Value {
	v := NewTerminalValue(g)
	for _, s := range g.NonTerminal() {
		v.Set(s, q.Max(s))
	}
	return v
}

func (q *ActionValue) index(s grid.State, a grid.Action) int {
	if !a.Valid() {
		panic("index: invalid action " + a.String())
	}
	return (s.Row*q.n+s.Col)*grid.NumActions + int(a)
}

// Counts counts visits to each (state, action) pair of an n x n grid
type Counts struct {
	n      int
	counts []int
}

// NewCounts returns a Counts of zeros for an n x n grid
func NewCounts(n int) *Counts {
	return &Counts{n, make([]int, n*n*grid.NumActions)}
}

// Increment adds one visit to (s, a) and returns the new count
func (c *Counts) Increment(s grid.State, a grid.Action) int {
	i := (s.Row*c.n+s.Col)*grid.NumActions + int(a)
	c.counts[i]++
	return c.counts[i]
}

// At returns the number of visits to (s, a)
func (c *Counts) At(s grid.State, a grid.Action) int {
	return c.counts[(s.Row*c.n+s.Col)*grid.NumActions+int(a)]
}
