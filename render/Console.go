// Package render draws the tables of solved gridworlds, either as text
// for the console or as PNG images
package render

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
)

// FormatValues formats a value table for printing, one grid row per
// line
func FormatValues(v *table.Value) string {
	fa := mat.Formatted(v.Matrix(), mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%.2f", fa)
}

// FormatPolicy formats a policy for printing, one grid row per line.
// The terminal state is shown as G.
func FormatPolicy(p *table.Policy, g *grid.Spec) string {
	var b strings.Builder
	for row := 0; row < g.N(); row++ {
		cells := make([]string, g.N())
		for col := range cells {
			s := grid.State{Row: row, Col: col}
			if g.IsTerminal(s) {
				cells[col] = "G"
				continue
			}
			cells[col] = p.At(s).String()
		}
		b.WriteString(strings.Join(cells, " "))
		if row < g.N()-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FormatPath formats a sequence of states as an arrow separated list
func FormatPath(path []grid.State) string {
	states := make([]string, len(path))
	for i, s := range path {
		states[i] = s.String()
	}
	return strings.Join(states, " → ")
}
