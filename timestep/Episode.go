package timestep

import "github.com/samuelfneumann/gridmdp/grid"

// Transition is a single (state, action, reward) triple of an episode.
// Reward is the reward received for the move out of State.
type Transition struct {
	State  grid.State
	Action grid.Action
	Reward float64
	Next   grid.State
}

// Episode is an ordered sequence of transitions generated from a start
// state. An Episode ends at the terminal state or when the step budget
// runs out, in which case End is Timeout.
type Episode struct {
	Transitions []Transition
	End         EndType
}

// Len returns the number of transitions in the episode
func (e *Episode) Len() int {
	return len(e.Transitions)
}

// Final returns the state the episode ended in, or ok == false if the
// episode has no transitions
func (e *Episode) Final() (s grid.State, ok bool) {
	if len(e.Transitions) == 0 {
		return grid.State{}, false
	}
	return e.Transitions[len(e.Transitions)-1].Next, true
}

// Return returns the discounted sum of rewards of the episode
func (e *Episode) Return(discount float64) float64 {
	g := 0.0
	for i := len(e.Transitions) - 1; i >= 0; i-- {
		g = discount*g + e.Transitions[i].Reward
	}
	return g
}

// Truncated returns whether the step budget ended the episode
func (e *Episode) Truncated() bool {
	return e.End == Timeout
}
