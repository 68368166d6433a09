// Package cmd implements the gridmdp command line tool
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/config"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/grid"
)

// app holds the state shared by all commands of one invocation
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     zerolog.Logger
	out        io.Writer
	errOut     io.Writer

	g     *grid.Spec
	model environment.Model
}

// NewRootCommand returns the gridmdp command tree writing results to
// out and logs and progress to errOut
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "gridmdp",
		Short: "Solve gridworld Markov decision processes",
		Long: `gridmdp solves gridworld MDPs with dynamic programming, Monte
Carlo and temporal difference methods.

A run is configured by an optional YAML or JSON file, GRIDMDP_
environment variables and flags, in increasing order of precedence.
Without configuration the standard 6x6 example grid is solved under
deterministic transitions.

` + sectionHelp(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	d := config.Default()
	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (YAML or JSON)")
	flags.String("grid", d.Grid.Name, "Built in grid (standard, simple)")
	flags.String("model", d.Model.Kind,
		"Transition model (deterministic, wind, drift)")
	flags.String("log-level", d.LogLevel,
		"Log level (debug, info, warn, error)")
	flags.Uint64("seed", d.Seed, "Seed of every random number generator")
	flags.String("png", d.PNG, "Render the result to this PNG file")
	flags.Int("episodes", d.Episodes, "Rollouts used to measure a policy")
	flags.Int("max-steps", d.MaxSteps, "Step budget of every rollout")

	bind := map[string]string{
		"grid.name":  "grid",
		"model.kind": "model",
		"log_level":  "log-level",
		"seed":       "seed",
		"png":        "png",
		"episodes":   "episodes",
		"max_steps":  "max-steps",
	}
	for key, flag := range bind {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("newRootCommand: %v", err))
		}
	}

	root.AddCommand(
		a.evaluateCommand(),
		a.valueIterationCommand(),
		a.policyIterationCommand(),
		a.mcPredictCommand(),
		a.mcControlCommand(),
		a.tdPredictCommand(),
		a.tdNStepCommand(),
		a.tdControlCommand(),
		a.followCommand(),
		a.compareCommand(),
	)
	return root
}

// sectionHelp lists the config file section of every registered solver
func sectionHelp() string {
	var b strings.Builder
	b.WriteString("Solver settings are read from these sections:\n")
	for _, t := range agent.Registered() {
		fmt.Fprintf(&b, "  %-16v %v\n", config.Section(t), t)
	}
	return b.String()
}

// Execute runs the gridmdp command tree on the process arguments
func Execute() error {
	return NewRootCommand(os.Stdout, os.Stderr).Execute()
}

// setup loads the configuration and builds the logger, grid and model
func (a *app) setup(*cobra.Command, []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.errOut}).
		Level(level).
		With().
		Timestamp().
		Logger()

	if a.g, err = cfg.Spec(); err != nil {
		return err
	}
	if a.model, err = cfg.TransitionModel(a.g); err != nil {
		return err
	}

	a.logger.Debug().
		Int("n", a.g.N()).
		Str("model", cfg.Model.Kind).
		Uint64("seed", cfg.Seed).
		Msg("configuration loaded")
	return nil
}
