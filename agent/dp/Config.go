package dp

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gridmdp/agent"
)

func init() {
	agent.Register(agent.PolicyEvaluation, func() agent.Config {
		c := DefaultEvaluationConfig()
		return &c
	})
	agent.Register(agent.ValueIteration, func() agent.Config {
		c := DefaultValueIterationConfig()
		return &c
	})
	agent.Register(agent.PolicyIteration, func() agent.Config {
		c := DefaultPolicyIterationConfig()
		return &c
	})
}

// Config holds the parameters shared by the sweep based solvers
type Config struct {
	// Discount is the discount factor γ
	Discount float64 `mapstructure:"discount"`

	// Threshold is the sweep delta below which a solver has converged
	Threshold float64 `mapstructure:"threshold"`

	// MaxSweeps caps the number of sweeps. A solver reaching the cap
	// stops with agent.ErrNotConverged. Zero removes the cap, in which
	// case a configuration that never converges runs forever.
	MaxSweeps int `mapstructure:"max_sweeps"`
}

// DefaultConfig returns an undiscounted Config with threshold 1e-4
// and a cap of 10000 sweeps
func DefaultConfig() Config {
	return Config{Discount: 1.0, Threshold: 1e-4, MaxSweeps: 10000}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Discount < 0 || c.Discount > 1 || math.IsNaN(c.Discount) {
		return fmt.Errorf("discount must be in [0, 1], got %v", c.Discount)
	}
	if c.Threshold <= 0 || math.IsNaN(c.Threshold) {
		return fmt.Errorf("threshold must be positive, got %v", c.Threshold)
	}
	if c.MaxSweeps < 0 {
		return fmt.Errorf("max sweeps cannot be negative, got %d",
			c.MaxSweeps)
	}
	return nil
}

// EvaluationConfig configures an Evaluator
type EvaluationConfig struct {
	Config `mapstructure:",squash"`
}

// DefaultEvaluationConfig returns the default EvaluationConfig
func DefaultEvaluationConfig() EvaluationConfig {
	return EvaluationConfig{DefaultConfig()}
}

// Type returns the type of the solver constructed by the Config
func (c EvaluationConfig) Type() agent.Type {
	return agent.PolicyEvaluation
}

// ValueIterationConfig configures a ValueIteration solver
type ValueIterationConfig struct {
	Config `mapstructure:",squash"`
}

// DefaultValueIterationConfig returns the default ValueIterationConfig
func DefaultValueIterationConfig() ValueIterationConfig {
	return ValueIterationConfig{DefaultConfig()}
}

// Type returns the type of the solver constructed by the Config
func (c ValueIterationConfig) Type() agent.Type {
	return agent.ValueIteration
}

// PolicyIterationConfig configures a PolicyIteration solver. The
// embedded Config applies to every policy evaluation.
type PolicyIterationConfig struct {
	Config `mapstructure:",squash"`

	// MaxImprovements caps the number of policy improvement steps,
	// zero removes the cap
	MaxImprovements int `mapstructure:"max_improvements"`
}

// DefaultPolicyIterationConfig returns the default
// PolicyIterationConfig
func DefaultPolicyIterationConfig() PolicyIterationConfig {
	return PolicyIterationConfig{Config: DefaultConfig(),
		MaxImprovements: 1000}
}

// Validate ensures that the Config is valid
func (c PolicyIterationConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.MaxImprovements < 0 {
		return fmt.Errorf("max improvements cannot be negative, got %d",
			c.MaxImprovements)
	}
	return nil
}

// Type returns the type of the solver constructed by the Config
func (c PolicyIterationConfig) Type() agent.Type {
	return agent.PolicyIteration
}
