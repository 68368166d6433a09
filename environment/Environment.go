// Package environment outlines the transition models of gridworld MDPs
// and the interfaces and structs needed to implement concrete
// environments on top of them
package environment

import (
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() grid.State
}

// Ender determines when episodes should be ended. If End returns true
// it has marked the TimeStep as the last of its episode.
type Ender interface {
	End(t *timestep.TimeStep) bool
}

// Environment implements a simulated gridworld that is stepped with
// actions until the episode ends
type Environment interface {
	// Reset starts a new episode from a state sampled by the
	// environment's Starter
	Reset() timestep.TimeStep

	// ResetTo starts a new episode from the argument state
	ResetTo(s grid.State) (timestep.TimeStep, error)

	// Step takes an action in the environment, returning the next
	// TimeStep and whether the episode has ended
	Step(a grid.Action) (timestep.TimeStep, bool, error)

	// CurrentTimeStep returns the most recent TimeStep
	CurrentTimeStep() timestep.TimeStep

	// Spec returns the grid the environment simulates
	Spec() *grid.Spec
}
