package td

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gridmdp/agent"
)

func init() {
	agent.Register(agent.TDPrediction, func() agent.Config {
		c := DefaultPredictionConfig()
		return &c
	})
	agent.Register(agent.NStepTDPrediction, func() agent.Config {
		c := DefaultNStepConfig()
		return &c
	})
	agent.Register(agent.TDControl, func() agent.Config {
		c := DefaultControlConfig()
		return &c
	})
}

// PredictionConfig configures a one step Prediction solver
type PredictionConfig struct {
	Discount     float64 `mapstructure:"discount"`
	LearningRate float64 `mapstructure:"learning_rate"`

	// Epochs is the number of times an episode is run from every
	// non-terminal state
	Epochs   int    `mapstructure:"epochs"`
	MaxSteps int    `mapstructure:"max_steps"`
	Seed     uint64 `mapstructure:"seed"`
}

// DefaultPredictionConfig returns the default PredictionConfig
func DefaultPredictionConfig() PredictionConfig {
	return PredictionConfig{
		Discount:     1.0,
		LearningRate: 0.1,
		Epochs:       1000,
		MaxSteps:     1000,
	}
}

// Validate ensures that the Config is valid
func (c PredictionConfig) Validate() error {
	if err := validate(c.Discount, c.LearningRate); err != nil {
		return err
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", c.MaxSteps)
	}
	return nil
}

// Type returns the type of the solver constructed by the Config
func (c PredictionConfig) Type() agent.Type {
	return agent.TDPrediction
}

// NStepConfig configures an NStep prediction solver
type NStepConfig struct {
	PredictionConfig `mapstructure:",squash"`

	// Steps is the number n of rewards summed before bootstrapping
	Steps int `mapstructure:"steps"`

	// Truncate also updates the last states of every episode, whose
	// windows run past the end of the episode, with the rewards that
	// remain
	Truncate bool `mapstructure:"truncate"`
}

// DefaultNStepConfig returns the default NStepConfig
func DefaultNStepConfig() NStepConfig {
	return NStepConfig{PredictionConfig: DefaultPredictionConfig(), Steps: 3}
}

// Validate ensures that the Config is valid
func (c NStepConfig) Validate() error {
	if err := c.PredictionConfig.Validate(); err != nil {
		return err
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	return nil
}

// Type returns the type of the solver constructed by the Config
func (c NStepConfig) Type() agent.Type {
	return agent.NStepTDPrediction
}

// ControlConfig configures a Control solver
type ControlConfig struct {
	Discount     float64 `mapstructure:"discount"`
	LearningRate float64 `mapstructure:"learning_rate"`
	Episodes     int     `mapstructure:"episodes"`
	MaxSteps     int     `mapstructure:"max_steps"`

	// Epsilon is the initial exploration rate of the behaviour policy.
	// After each episode it is multiplied by EpsilonDecay, never
	// dropping below MinEpsilon.
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
		LearningRate: 0.1,
		Episodes:     5000,
		MaxSteps:     1000,
		Epsilon:      0.3,
		EpsilonDecay: 0.999,
		MinEpsilon:   0.05,
	}
}

// Validate ensures that the Config is valid
func (c ControlConfig) Validate() error {
	if err := validate(c.Discount, c.LearningRate); err != nil {
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
	return agent.TDControl
}

func validate(discount, learningRate float64) error {
	if discount < 0 || discount > 1 || math.IsNaN(discount) {
		return fmt.Errorf("discount must be in [0, 1], got %v", discount)
	}
	if learningRate <= 0 || learningRate > 1 || math.IsNaN(learningRate) {
		return fmt.Errorf("learning rate must be in (0, 1], got %v",
			learningRate)
	}
	return nil
}
