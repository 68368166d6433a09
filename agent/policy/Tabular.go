// Package policy implements action selection for tabular solvers
package policy

import (
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
	"github.com/samuelfneumann/gridmdp/timestep"
)

// Tabular follows the actions stored in a policy table
type Tabular struct {
	table *table.Policy
}

// NewTabular returns a policy that takes p.At(s) in every state s. The
// table is not copied, so later changes to p are followed.
func NewTabular(p *table.Policy) *Tabular {
	return &Tabular{p}
}

// SelectAction returns the action of the table in the current state
func (p *Tabular) SelectAction(t timestep.TimeStep) grid.Action {
	return p.table.At(t.Observation)
}
