package montecarlo

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gridmdp/agent"
)

func init() {
	agent.Register(agent.MonteCarloPrediction, func() agent.Config {
		c := DefaultPredictionConfig()
		return &c
	})
	agent.Register(agent.MonteCarloControl, func() agent.Config {
		c := DefaultControlConfig()
		return &c
	})
}

// PredictionConfig configures a Prediction solver
type PredictionConfig struct {
	Discount float64 `mapstructure:"discount"`

	// Sweeps is the number of times an episode is generated from every
	// non-terminal state
	Sweeps int `mapstructure:"sweeps"`

	// MaxSteps is the step budget of a single episode
	MaxSteps int    `mapstructure:"max_steps"`
	Seed     uint64 `mapstructure:"seed"`
}

// DefaultPredictionConfig returns the default PredictionConfig
func DefaultPredictionConfig() PredictionConfig {
	return PredictionConfig{Discount: 1.0, Sweeps: 1000, MaxSteps: 1000}
}

// Validate ensures that the Config is valid
func (c PredictionConfig) Validate() error {
	if err := validateDiscount(c.Discount); err != nil {
		return err
	}
	if c.Sweeps <= 0 {
		return fmt.Errorf("sweeps must be positive, got %d", c.Sweeps)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", c.MaxSteps)
	}
	return nil
}

// Type returns the type of the solver constructed by the Config
func (c PredictionConfig) Type() agent.Type {
	return agent.MonteCarloPrediction
}

// ControlConfig configures a Control solver
type ControlConfig struct {
	Discount float64 `mapstructure:"discount"`
	Episodes int     `mapstructure:"episodes"`
	MaxSteps int     `mapstructure:"max_steps"`

	// Epsilon is the initial exploration rate of the behaviour policy.
	// After each episode it is multiplied by EpsilonDecay, never
	// dropping below MinEpsilon. An EpsilonDecay of 1 keeps it fixed.
	Epsilon      float64 `mapstructure:"epsilon"`
	EpsilonDecay float64 `mapstructure:"epsilon_decay"`
	MinEpsilon   float64 `mapstructure:"min_epsilon"`

	// ExploringStarts starts every episode in a uniformly random
	// non-terminal state instead of the grid's start state
	ExploringStarts bool   `mapstructure:"exploring_starts"`
	Seed            uint64 `mapstructure:"seed"`
}

// DefaultControlConfig returns the default ControlConfig
func DefaultControlConfig() ControlConfig {
	return ControlConfig{
		Discount:     1.0,
		Episodes:     5000,
		MaxSteps:     200,
		Epsilon:      0.2,
		EpsilonDecay: 1.0,
		MinEpsilon:   0.05,
	}
}

// Validate ensures that the Config is valid
func (c ControlConfig) Validate() error {
	if err := validateDiscount(c.Discount); err != nil {
		return err
	}
	if c.Episodes <= 0 {
		return fmt.Errorf("episodes must be positive, got %d", c.Episodes)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", c.MaxSteps)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1], got %v", c.Epsilon)
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("epsilon decay must be in (0, 1], got %v",
			c.EpsilonDecay)
	}
	if c.MinEpsilon < 0 || c.MinEpsilon > 1 {
		return fmt.Errorf("min epsilon must be in [0, 1], got %v",
			c.MinEpsilon)
	}
	return nil
}

// Type returns the type of the solver constructed by the Config
func (c ControlConfig) Type() agent.Type {
	return agent.MonteCarloControl
}

func validateDiscount(d float64) error {
	if d < 0 || d > 1 || math.IsNaN(d) {
		return fmt.Errorf("discount must be in [0, 1], got %v", d)
	}
	return nil
}
