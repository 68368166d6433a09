package grid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAction is returned when a symbol does not name an Action
var ErrInvalidAction = errors.New("invalid action")

// Action is one of the four compass moves available in every state
type Action int

const (
	North Action = iota
	South
	East
	West
)

// NumActions is the number of actions available in each state
const NumActions = 4

// Actions lists every action in enumeration order. Greedy selections
// that tie keep the first action of this ordering.
var Actions = [NumActions]Action{North, South, East, West}

// Valid returns whether a is a member of the action enumeration
func (a Action) Valid() bool {
	return a >= North && a <= West
}

// Delta returns the row and column displacement of a. Delta panics if
// a is not a valid Action.
func (a Action) Delta() (row, col int) {
	switch a {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	}
	panic(fmt.Sprintf("delta: %v", invalid(a)))
}

// Sides returns the two lateral directions of a heading. Vertical
// headings drift west and east, horizontal headings drift north and
// south.
func (a Action) Sides() (left, right Action) {
	switch a {
	case North, South:
		return West, East
	case East, West:
		return North, South
	}
	panic(fmt.Sprintf("sides: %v", invalid(a)))
}

func (a Action) String() string {
	switch a {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction returns the Action named by one of the symbols N, S, E
// or W, ignoring case
func ParseAction(symbol string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "N":
		return North, nil
	case "S":
		return South, nil
	case "E":
		return East, nil
	case "W":
		return West, nil
	}
	return 0, fmt.Errorf("parseAction: %w: %q", ErrInvalidAction, symbol)
}

func invalid(a Action) error {
	return fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
}
