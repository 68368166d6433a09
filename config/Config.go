// Package config loads the configuration of a gridmdp run: the grid,
// its transition model and the settings of every solver
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/gridmdp/agent"
	// Solver packages register their default configs on import
	_ "github.com/samuelfneumann/gridmdp/agent/dp"
	_ "github.com/samuelfneumann/gridmdp/agent/montecarlo"
	_ "github.com/samuelfneumann/gridmdp/agent/td"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/examples"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
)

// EnvPrefix prefixes the environment variables that override settings,
// e.g. GRIDMDP_MODEL_KIND=wind
const EnvPrefix = "GRIDMDP"

// Model kinds
const (
	Deterministic = "deterministic"
	Wind          = "wind"
	Drift         = "drift"
)

// Grid describes a gridworld. A grid with rewards is built from Size,
// Rewards, Start and Terminal. Otherwise Name selects one of the built
// in example grids.
type Grid struct {
	Name     string      `mapstructure:"name"`
	Size     int         `mapstructure:"size"`
	Rewards  [][]float64 `mapstructure:"rewards"`
	Start    []int       `mapstructure:"start"`
	Terminal []int       `mapstructure:"terminal"`

	// Policy is the policy to evaluate, one string of N, S, E or W per
	// row. An empty Policy moves toward the terminal state.
	Policy []string `mapstructure:"policy"`
}

// DriftSettings are the arguments of environment.DriftTask
type DriftSettings struct {
	Success  float64 `mapstructure:"success"`
	Straight float64 `mapstructure:"straight"`
	Left     float64 `mapstructure:"left"`
	Right    float64 `mapstructure:"right"`
}

// Model selects the transition model
type Model struct {
	Kind  string                  `mapstructure:"kind"`
	Wind  environment.WindWeights `mapstructure:"wind"`
	Drift DriftSettings           `mapstructure:"drift"`
}

// Config holds all run configuration
type Config struct {
	Grid  Grid  `mapstructure:"grid"`
	Model Model `mapstructure:"model"`

	// Episodes is the number of rollouts used to measure a policy
	Episodes int `mapstructure:"episodes"`

	// MaxSteps bounds the length of every rollout
	MaxSteps int    `mapstructure:"max_steps"`
	Seed     uint64 `mapstructure:"seed"`
	PNG      string `mapstructure:"png"`
	LogLevel string `mapstructure:"log_level"`

	v *viper.Viper
}

// Default returns a config for the standard 6x6 example grid under the
// deterministic model
func Default() *Config {
	return &Config{
		Grid:  Grid{Name: "standard"},
		Model: Model{
			Kind: Deterministic,
			Wind: environment.WindTask(),
			Drift: DriftSettings{
				Success:  0.9,
				Straight: 0.8,
				Left:     0.1,
				Right:    0.1,
			},
		},
		Episodes: 100,
		MaxSteps: 1000,
		LogLevel: "info",
	}
}

// SetDefaults registers the default config with v so that every key is
// known to v and can be overridden by environment variables
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("grid.name", d.Grid.Name)
	v.SetDefault("model.kind", d.Model.Kind)
	v.SetDefault("model.wind.primary", d.Model.Wind.Primary)
	v.SetDefault("model.wind.left_diagonal", d.Model.Wind.LeftDiagonal)
	v.SetDefault("model.wind.right_diagonal", d.Model.Wind.RightDiagonal)
	v.SetDefault("model.wind.left", d.Model.Wind.Left)
	v.SetDefault("model.wind.right", d.Model.Wind.Right)
	v.SetDefault("model.wind.stay", d.Model.Wind.Stay)
	v.SetDefault("model.drift.success", d.Model.Drift.Success)
	v.SetDefault("model.drift.straight", d.Model.Drift.Straight)
	v.SetDefault("model.drift.left", d.Model.Drift.Left)
	v.SetDefault("model.drift.right", d.Model.Drift.Right)
	v.SetDefault("episodes", d.Episodes)
	v.SetDefault("max_steps", d.MaxSteps)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("png", d.PNG)
	v.SetDefault("log_level", d.LogLevel)

	for t, section := range sections {
		sc, err := agent.NewConfig(t)
		if err != nil {
			panic(fmt.Sprintf("setDefaults: %v", err))
		}
		var keys map[string]interface{}
		if err := mapstructure.Decode(sc, &keys); err != nil {
			panic(fmt.Sprintf("setDefaults: %v: %v", t, err))
		}
		setSection(v, section, keys)
	}
}

// setSection registers the default solver settings in keys under
// section. Settings of embedded configs are squashed into the section.
// The seed is left unset so that it defaults to the run seed.
func setSection(v *viper.Viper, section string, keys map[string]interface{}) {
	for key, value := range keys {
		switch nested := value.(type) {
		case map[string]interface{}:
			setSection(v, section, nested)
		default:
			if key != "seed" {
				v.SetDefault(section+"."+key, value)
			}
		}
	}
}

// New returns a viper instance reading GRIDMDP_ environment variables
// on top of the defaults
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and decodes the settings of v
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load: could not read config file: %w",
				err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("load: could not decode config: %w", err)
	}
	c.v = v

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.Spec(); err != nil {
		return err
	}
	switch c.Model.Kind {
	case Deterministic, Wind, Drift:
	default:
		return fmt.Errorf("model kind must be one of %q, %q or %q, got %q",
			Deterministic, Wind, Drift, c.Model.Kind)
	}
	if c.Episodes <= 0 {
		return errors.New("episodes must be positive")
	}
	if c.MaxSteps <= 0 {
		return errors.New("max_steps must be positive")
	}
	return nil
}

// Spec builds the grid
func (c *Config) Spec() (*grid.Spec, error) {
	if len(c.Grid.Rewards) == 0 {
		switch strings.ToLower(c.Grid.Name) {
		case "standard":
			return examples.Standard(), nil
		case "simple":
			return examples.Simple(), nil
		}
		return nil, fmt.Errorf("spec: unknown grid %q", c.Grid.Name)
	}

	start, err := state(c.Grid.Start)
	if err != nil {
		return nil, fmt.Errorf("spec: start: %w", err)
	}
	terminal, err := state(c.Grid.Terminal)
	if err != nil {
		return nil, fmt.Errorf("spec: terminal: %w", err)
	}

	g, err := grid.New(c.Grid.Size, c.Grid.Rewards, start, terminal)
	if err != nil {
		return nil, fmt.Errorf("spec: %w", err)
	}
	return g, nil
}

// TransitionModel builds the transition model over g
func (c *Config) TransitionModel(g *grid.Spec) (environment.Model, error) {
	switch c.Model.Kind {
	case Deterministic:
		return environment.NewDeterministic(g), nil

	case Wind, Drift:
		w := c.Model.Wind
		if c.Model.Kind == Drift {
			d := c.Model.Drift
			w = environment.DriftTask(d.Success, d.Straight, d.Left, d.Right)
		}
		m, err := environment.NewWindy(g, w)
		if err != nil {
			return nil, fmt.Errorf("transitionModel: %w", err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("transitionModel: unknown model kind %q",
		c.Model.Kind)
}

// Policy builds the policy to evaluate on g
func (c *Config) Policy(g *grid.Spec) (*table.Policy, error) {
	rows := c.Grid.Policy
	if len(rows) == 0 && len(c.Grid.Rewards) == 0 {
		switch strings.ToLower(c.Grid.Name) {
		case "standard":
			return examples.StandardPolicy(), nil
		case "simple":
			return examples.SimplePolicy(), nil
		}
	}
	if len(rows) == 0 {
		return table.TowardPolicy(g), nil
	}

	p, err := table.ParsePolicy(rows)
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	if p.N() != g.N() {
		return nil, fmt.Errorf("policy: policy is %dx%d but grid is %dx%d",
			p.N(), p.N(), g.N(), g.N())
	}
	return p, nil
}

// sections maps solver types to the config file section holding their
// settings
var sections = map[agent.Type]string{
	agent.PolicyEvaluation:     "evaluation",
	agent.ValueIteration:       "value_iteration",
	agent.PolicyIteration:      "policy_iteration",
	agent.MonteCarloPrediction: "mc_prediction",
	agent.MonteCarloControl:    "mc_control",
	agent.TDPrediction:         "td_prediction",
	agent.NStepTDPrediction:    "td_nstep",
	agent.TDControl:            "td_control",
}

// Section returns the config file section of solver type t
func Section(t agent.Type) string {
	return sections[t]
}

// Solver returns the validated config of solver type t. Settings start
// from the solver's defaults, take the run seed and are then
// overridden by the solver's section of the config.
func (c *Config) Solver(t agent.Type) (agent.Config, error) {
	sc, err := agent.NewConfig(t)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	// Solvers without randomness have no seed field to decode into
	seed := map[string]interface{}{"seed": c.Seed}
	if err := mapstructure.Decode(seed, sc); err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	// AllSettings applies environment variables to every known key of
	// the section, which UnmarshalKey would skip
	if section, ok := sections[t]; ok && c.v != nil {
		settings, _ := c.v.AllSettings()[section].(map[string]interface{})
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           sc,
		})
		if err != nil {
			return nil, fmt.Errorf("solver: %w", err)
		}
		if err := decoder.Decode(settings); err != nil {
			return nil, fmt.Errorf("solver: could not decode %v: %w",
				section, err)
		}
	}

	if err := agent.Validate(sc); err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	return sc, nil
}

func state(coords []int) (grid.State, error) {
	if len(coords) != 2 {
		return grid.State{}, fmt.Errorf("expected [row, col], got %v",
			coords)
	}
	return grid.State{Row: coords[0], Col: coords[1]}, nil
}
