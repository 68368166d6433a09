package table

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/gridmdp/grid"
)

// Policy maps each state of a grid to the action taken there. The
// action stored for the terminal state is never used.
type Policy struct {
	n       int
	actions []grid.Action
}

// NewPolicy returns a Policy for an n x n grid taking action a in
// every state
func NewPolicy(n int, a grid.Action) *Policy {
	if !a.Valid() {
		panic(fmt.Sprintf("newPolicy: invalid action %v", a))
	}
	actions := make([]grid.Action, n*n)
	for i := range actions {
		actions[i] = a
	}
	return &Policy{n, actions}
}

// ParsePolicy builds a Policy from rows of action symbols, one symbol
// per cell, such as []string{"EES", "ENS", "NNN"}. Whitespace between
// symbols is ignored.
func ParsePolicy(rows []string) (*Policy, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("parsePolicy: no rows")
	}

	p := &Policy{n, make([]grid.Action, 0, n*n)}
	for i, row := range rows {
		symbols := strings.Join(strings.Fields(row), "")
		if len(symbols) != n {
			return nil, fmt.Errorf("parsePolicy: row %d has %d actions, "+
				"expected %d", i, len(symbols), n)
		}
		for _, r := range symbols {
			a, err := grid.ParseAction(string(r))
			if err != nil {
				return nil, fmt.Errorf("parsePolicy: row %d: %w", i, err)
			}
			p.actions = append(p.actions, a)
		}
	}
	return p, nil
}

// TowardPolicy returns a Policy for g that moves along the rows toward
// the terminal state and then along the columns. Every state reaches
// the terminal state under this policy with the deterministic model.
func TowardPolicy(g *grid.Spec) *Policy {
	p := NewPolicy(g.N(), grid.North)
	term := g.Terminal()
	for _, s := range g.States() {
		switch {
		case s.Row > term.Row:
			p.Set(s, grid.North)
		case s.Row < term.Row:
			p.Set(s, grid.South)
		case s.Col < term.Col:
			p.Set(s, grid.East)
		case s.Col > term.Col:
			p.Set(s, grid.West)
		}
	}
	return p
}

// N returns the side length of the table
func (p *Policy) N() int {
	return p.n
}

// At returns the action taken in s
func (p *Policy) At(s grid.State) grid.Action {
	return p.actions[p.index(s)]
}

// Set sets the action taken in s. Set panics if a is not a valid
// action.
func (p *Policy) Set(s grid.State, a grid.Action) {
	if !a.Valid() {
		panic(fmt.Sprintf("set: invalid action %v", a))
	}
	p.actions[p.index(s)] = a
}

// Clone returns a deep copy of the policy
func (p *Policy) Clone() *Policy {
	return &Policy{p.n, append([]grid.Action(nil), p.actions...)}
}

// Equal returns whether p and other take the same action in every
// state of g except the terminal state
func (p *Policy) Equal(other *Policy, g *grid.Spec) bool {
	if p.n != other.n {
		return false
	}
	for _, s := range g.NonTerminal() {
		if p.At(s) != other.At(s) {
			return false
		}
	}
	return true
}

// Rows returns the action symbols of the policy row by row
func (p *Policy) Rows() []string {
	rows := make([]string, p.n)
	var b strings.Builder
	for i := range rows {
		b.Reset()
		for _, a := range p.actions[i*p.n : (i+1)*p.n] {
			b.WriteString(a.String())
		}
		rows[i] = b.String()
	}
	return rows
}

func (p *Policy) index(s grid.State) int {
	if s.Row < 0 || s.Row >= p.n || s.Col < 0 || s.Col >= p.n {
		panic(fmt.Sprintf("index: state %v out of bounds for %dx%d policy",
			s, p.n, p.n))
	}
	return s.Row*p.n + s.Col
}
