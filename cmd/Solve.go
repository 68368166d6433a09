package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/agent/dp"
	"github.com/samuelfneumann/gridmdp/agent/montecarlo"
	"github.com/samuelfneumann/gridmdp/agent/td"
	"github.com/samuelfneumann/gridmdp/config"
	"github.com/samuelfneumann/gridmdp/table"
	"github.com/samuelfneumann/gridmdp/utils/progressbar"
)

// progressWidth is the width in characters of progress bars
const progressWidth = 40

func (a *app) evaluateCommand() *cobra.Command {
	return a.solverCommand("evaluate", agent.PolicyEvaluation,
		"Evaluate the configured policy with iterative sweeps")
}

func (a *app) valueIterationCommand() *cobra.Command {
	return a.solverCommand("value-iteration", agent.ValueIteration,
		"Find an optimal policy with value iteration")
}

func (a *app) policyIterationCommand() *cobra.Command {
	return a.solverCommand("policy-iteration", agent.PolicyIteration,
		"Find an optimal policy with policy iteration")
}

func (a *app) mcPredictCommand() *cobra.Command {
	return a.solverCommand("mc-predict", agent.MonteCarloPrediction,
		"Estimate the value of the configured policy from sampled returns")
}

func (a *app) mcControlCommand() *cobra.Command {
	return a.solverCommand("mc-control", agent.MonteCarloControl,
		"Learn a policy with ε-greedy Monte Carlo control")
}

func (a *app) tdPredictCommand() *cobra.Command {
	return a.solverCommand("td-predict", agent.TDPrediction,
		"Estimate the value of the configured policy with TD(0)")
}

func (a *app) tdNStepCommand() *cobra.Command {
	return a.solverCommand("td-nstep", agent.NStepTDPrediction,
		"Estimate the value of the configured policy with n-step TD")
}

func (a *app) tdControlCommand() *cobra.Command {
	return a.solverCommand("td-control", agent.TDControl,
		"Learn a policy with max-based TD control")
}

func (a *app) solverCommand(use string, t agent.Type,
	short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long: fmt.Sprintf("%v.\n\nSettings are read from the %q section "+
			"of the config file.", short, config.Section(t)),
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.solve(t)
		},
	}
}

// newSolver constructs the solver of type t from the configuration. It
// also returns the number of episodes or epochs a sampling solver
// runs, or 0 for sweep based solvers.
func (a *app) newSolver(t agent.Type) (agent.Solver, int, error) {
	sc, err := a.cfg.Solver(t)
	if err != nil {
		return nil, 0, err
	}

	policy, err := a.cfg.Policy(a.g)
	if err != nil {
		return nil, 0, err
	}

	switch c := sc.(type) {
	case *dp.EvaluationConfig:
		s, err := dp.NewEvaluator(a.model, policy, *c)
		return s, 0, err

	case *dp.ValueIterationConfig:
		s, err := dp.NewValueIteration(a.model, *c)
		return s, 0, err

	case *dp.PolicyIterationConfig:
		// Start from TowardPolicy unless a policy is configured
		var initial *table.Policy
		if len(a.cfg.Grid.Policy) > 0 {
			initial = policy
		}
		s, err := dp.NewPolicyIteration(a.model, initial, *c)
		return s, 0, err

	case *montecarlo.PredictionConfig:
		s, err := montecarlo.NewPrediction(a.model, policy, *c)
		return s, c.Sweeps, err

	case *montecarlo.ControlConfig:
		s, err := montecarlo.NewControl(a.model, *c)
		return s, c.Episodes, err

	case *td.PredictionConfig:
		s, err := td.NewPrediction(a.model, policy, *c)
		return s, c.Epochs, err

	case *td.NStepConfig:
		s, err := td.NewNStep(a.model, policy, *c)
		return s, c.Epochs, err

	case *td.ControlConfig:
		s, err := td.NewControl(a.model, *c)
		return s, c.Episodes, err
	}
	return nil, 0, fmt.Errorf("newSolver: no solver for type %v", t)
}

// solve runs the solver of type t and reports its tables, the path its
// policy takes from the start state and the policy's performance
func (a *app) solve(t agent.Type) error {
	s, budget, err := a.newSolver(t)
	if err != nil {
		return err
	}
	s.SetLogger(a.logger.With().Str("solver", string(t)).Logger())

	var bar *progressbar.ManualProgressBar
	if budget > 0 {
		bar = progressbar.NewManualProgressBar(a.errOut, progressWidth,
			budget)
		s.Register(agent.ObserverFunc(func(agent.Snapshot) {
			bar.Increment()
			bar.Display()
		}))
	}

	n, err := s.Run()
	if bar != nil {
		bar.Close()
	}
	switch {
	case errors.Is(err, agent.ErrNotConverged):
		a.logger.Warn().
			Int("sweeps", n).
			Msg("solver did not converge, reporting the last sweep")
	case err != nil:
		return err
	}

	a.logger.Info().
		Str("solver", string(t)).
		Int("iterations", n).
		Stringer("status", s.Status()).
		Msg("solver finished")

	return a.report(string(t), s.Values(), s.Policy())
}
