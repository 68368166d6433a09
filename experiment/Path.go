package experiment

import (
	"fmt"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/grid"
	ts "github.com/samuelfneumann/gridmdp/timestep"
)

// Path is the trajectory of one episode: the visited states, starting
// with the start state, and the reward received for each move
type Path struct {
	States  []grid.State
	Rewards []float64
	End     ts.EndType
}

// Len returns the number of moves along the path
func (p Path) Len() int {
	return len(p.Rewards)
}

// Total returns the undiscounted sum of rewards along the path
func (p Path) Total() float64 {
	total := 0.0
	for _, r := range p.Rewards {
		total += r
	}
	return total
}

// Efficiency returns the reward per move, or 0 for a path without
// moves
func (p Path) Efficiency() float64 {
	if p.Len() == 0 {
		return 0
	}
	return p.Total() / float64(p.Len())
}

// Reached returns whether the path ends in the terminal state
func (p Path) Reached() bool {
	return p.End == ts.TerminalStateReached
}

// Follow resets env and follows policy p until the episode ends,
// returning the path taken. Under a windy model the path is one sample
// of many possible paths. Follow only terminates on improper policies
// if env limits the episode length.
func Follow(env environment.Environment, p agent.Policy) (Path, error) {
	step := env.Reset()
	path := Path{States: []grid.State{step.Observation}}

	for !step.Last() {
		next, _, err := env.Step(p.SelectAction(step))
		if err != nil {
			return path, fmt.Errorf("follow: %w", err)
		}
		path.States = append(path.States, next.Observation)
		path.Rewards = append(path.Rewards, next.Reward)
		step = next
	}

	path.End = step.EndType
	return path, nil
}
