// Package agent defines the solvers of gridworld MDPs and the
// interfaces and bookkeeping they share
package agent

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
	"github.com/samuelfneumann/gridmdp/timestep"
)

var (
	// ErrNotConverged is returned by sweep based solvers that reach
	// their sweep cap before the value delta drops below the threshold
	ErrNotConverged = errors.New("did not converge")

	// ErrInvalidConfig is returned when a solver is constructed from a
	// Config that fails validation
	ErrInvalidConfig = errors.New("invalid config")
)

// Solver computes a value table and a policy for a gridworld MDP.
//
// Sweep based solvers iterate until the largest change in value over
// a sweep drops below a threshold. Sampling based solvers run a fixed
// number of episodes. In both cases Run returns the number of sweeps
// or episodes performed.
type Solver interface {
	Run() (int, error)

	// Values and Policy return copies of the current tables. They may
	// be called at any point, including from an Observer while the
	// solver runs.
	Values() *table.Value
	Policy() *table.Policy

	Status() Status
	Register(o Observer)
	SetLogger(l zerolog.Logger)
}

// Policy selects actions in the states reported by timesteps
type Policy interface {
	SelectAction(t timestep.TimeStep) grid.Action
}
