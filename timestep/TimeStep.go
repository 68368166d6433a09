// Package timestep implements timesteps of the agent-environment
// interaction and the episodes built from them
package timestep

import (
	"fmt"

	"github.com/samuelfneumann/gridmdp/grid"
)

// StepType denotes the type of step that a TimeStep can be, either the
// first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes why an episode ended
type EndType int

const (
	// Unfinished marks a TimeStep that does not end its episode
	Unfinished EndType = iota

	// TerminalStateReached marks an episode ended by entering the
	// absorbing terminal state
	TerminalStateReached

	// Timeout marks an episode cut off by the step budget. The return
	// of such an episode is truncated.
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Unfinished"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	EndType
	Reward      float64
	Discount    float64
	Observation grid.State
	Number      int
}

// New returns a new TimeStep
func New(t StepType, r, d float64, o grid.State, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Discount: d, Observation: o,
		Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd marks the TimeStep as the last of its episode, ended for the
// reason e
func (t *TimeStep) SetEnd(e EndType) {
	t.StepType = Last
	t.EndType = e
}

// Truncated returns whether the episode was cut off by a step budget
// before reaching the terminal state
func (t *TimeStep) Truncated() bool {
	return t.EndType == Timeout
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  End: %v  |  State: %v  |  " +
		"Reward:  %.2f  |  Discount: %.2f  |  Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.EndType, t.Observation, t.Reward,
		t.Discount, t.Number)
}
