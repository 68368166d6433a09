// Package gridworld implements a step/reset environment that samples
// the transitions of a gridworld MDP
package gridworld

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/timestep"
)

// ErrEpisodeEnded is returned when stepping an environment whose
// current episode has already ended
var ErrEpisodeEnded = errors.New("episode has ended")

// GridWorld represents a gridworld environment. Successor states are
// sampled from a transition model, so the same GridWorld is
// deterministic or windy depending on the model it wraps.
type GridWorld struct {
	environment.Starter
	model       environment.Model
	ender       environment.Ender
	source      rand.Source
	discount    float64
	position    grid.State
	currentStep timestep.TimeStep
}

// New creates a new GridWorld sampling transitions from m and episode
// starts from s. If e is non-nil it may end episodes early, for
// example with an environment.StepLimit.
func New(m environment.Model, s environment.Starter, e environment.Ender,
	discount float64, seed uint64) (*GridWorld, timestep.TimeStep) {
	g := &GridWorld{
		Starter:  s,
		model:    m,
		ender:    e,
		source:   rand.NewSource(seed),
		discount: discount,
	}

	return g, g.Reset()
}

// Spec returns the grid of the environment
func (g *GridWorld) Spec() *grid.Spec {
	return g.model.Spec()
}

// Model returns the transition model of the environment
func (g *GridWorld) Model() environment.Model {
	return g.model
}

// Position returns the current state of the agent
func (g *GridWorld) Position() grid.State {
	return g.position
}

// CurrentTimeStep returns the most recent TimeStep
func (g *GridWorld) CurrentTimeStep() timestep.TimeStep {
	return g.currentStep
}

// Reset starts a new episode in a state sampled from the Starter
func (g *GridWorld) Reset() timestep.TimeStep {
	step, err := g.ResetTo(g.Start())
	if err != nil {
		panic(fmt.Sprintf("reset: %v", err))
	}
	return step
}

// ResetTo starts a new episode in state s. An episode started in the
// terminal state is over immediately.
func (g *GridWorld) ResetTo(s grid.State) (timestep.TimeStep, error) {
	if !g.Spec().Contains(s) {
		return timestep.TimeStep{}, fmt.Errorf("resetTo: state %v is not "+
			"in the grid", s)
	}

	g.position = s
	step := timestep.New(timestep.First, 0, g.discount, s, 0)
	if g.Spec().IsTerminal(s) {
		step.SetEnd(timestep.TerminalStateReached)
	}
	g.currentStep = step
	return step, nil
}

// Step takes one action in the environment and returns the resulting
// TimeStep along with whether the episode has ended
func (g *GridWorld) Step(a grid.Action) (timestep.TimeStep, bool, error) {
	if !a.Valid() {
		return g.currentStep, false, fmt.Errorf("step: %w: %d",
			grid.ErrInvalidAction, int(a))
	}
	if g.currentStep.Last() {
		return g.currentStep, true, fmt.Errorf("step: %w", ErrEpisodeEnded)
	}

	next := environment.Sample(g.model, g.position, a, g.source)
	reward := g.Spec().TransitionReward(g.position, next)
	g.position = next

	step := timestep.New(timestep.Mid, reward, g.discount, next,
		g.currentStep.Number+1)
	if g.Spec().IsTerminal(next) {
		step.SetEnd(timestep.TerminalStateReached)
	} else if g.ender != nil {
		g.ender.End(&step)
	}

	g.currentStep = step
	return step, step.Last(), nil
}
