package agent

import (
	"fmt"
	"sort"
)

// Config represents a configuration for creating a solver
type Config interface {
	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of solver the Config configures
	Type() Type
}

// Validate validates c, wrapping any failure in ErrInvalidConfig
func Validate(c Config) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%v: %w: %v", c.Type(), ErrInvalidConfig, err)
	}
	return nil
}

// registered holds the constructors of default configurations keyed
// by solver type
var registered = make(map[Type]func() Config)

// Register registers the constructor of a solver type's default
// Config. Each solver package registers its own types on
// initialization to avoid circular imports.
func Register(t Type, defaults func() Config) {
	registered[t] = defaults
}

// NewConfig returns a pointer to the default Config of a registered
// solver type
func NewConfig(t Type) (Config, error) {
	defaults, ok := registered[t]
	if !ok {
		return nil, fmt.Errorf("newConfig: no solver registered for type "+
			"%q", t)
	}
	return defaults(), nil
}

// Registered returns every registered solver type in sorted order
func Registered() []Type {
	types := make([]Type, 0, len(registered))
	for t := range registered {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Offsets added to a solver's seed to derive its random streams. Each
// stream of a solver must use a distinct offset so that, for example,
// start states are not drawn from the same sequence as transitions.
const (
	EnvStream uint64 = iota
	BehaviourStream
	StarterStream
)
