// Package table implements the tabular containers learned by the
// solvers: state values, policies and action values
package table

import (
	"math"

	"github.com/samuelfneumann/gridmdp/grid"
	"gonum.org/v1/gonum/mat"
)

// Value maps each state of a grid to a real value. Values are stored
// in an N x N matrix indexed by (row, col).
type Value struct {
	data *mat.Dense
}

// NewValue returns a Value of zeros for an n x n grid
func NewValue(n int) *Value {
	return &Value{mat.NewDense(n, n, nil)}
}

// NewTerminalValue returns a Value of zeros for g in which the
// terminal state holds its reward
func NewTerminalValue(g *grid.Spec) *Value {
	v := NewValue(g.N())
	v.Set(g.Terminal(), g.Reward(g.Terminal()))
	return v
}

// At returns the value of s
func (v *Value) At(s grid.State) float64 {
	return v.data.At(s.Row, s.Col)
}

// Set sets the value of s
func (v *Value) Set(s grid.State, value float64) {
	v.data.Set(s.Row, s.Col, value)
}

// Add adds delta to the value of s
func (v *Value) Add(s grid.State, delta float64) {
	v.data.Set(s.Row, s.Col, v.data.At(s.Row, s.Col)+delta)
}

// N returns the side length of the table
func (v *Value) N() int {
	r, _ := v.data.Dims()
	return r
}

// Clone returns a deep copy of the table
func (v *Value) Clone() *Value {
	return &Value{mat.DenseCopyOf(v.data)}
}

// CopyFrom overwrites v with the values of other
func (v *Value) CopyFrom(other *Value) {
	v.data.Copy(other.data)
}

// Matrix returns a read-only view of the values
func (v *Value) Matrix() mat.Matrix {
	return v.data
}

// Rows returns the values as a row major slice of rows
func (v *Value) Rows() [][]float64 {
	n := v.N()
	out := make([][]float64, n)
	for i := range out {
		out[i] = mat.Row(nil, i, v.data)
	}
	return out
}

// MaxDiff returns the largest absolute difference between the values
// of v and other
func (v *Value) MaxDiff(other *Value) float64 {
	var diff mat.Dense
	diff.Sub(v.data, other.data)
	return math.Max(mat.Max(&diff), -mat.Min(&diff))
}
