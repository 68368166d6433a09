package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/agent/dp"
	"github.com/samuelfneumann/gridmdp/config"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/experiment/tracker"
	"github.com/samuelfneumann/gridmdp/render"
)

func (a *app) followCommand() *cobra.Command {
	var returns, lengths string

	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Follow the configured policy from the start state",
		Long: `Follow the configured policy from the start state and print
the path taken. The policy is then rolled out for the configured number
of episodes to measure its performance. Under a stochastic model every
rollout may take a different path.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			p, err := a.cfg.Policy(a.g)
			if err != nil {
				return err
			}

			var trackers []tracker.Tracker
			if returns != "" {
				trackers = append(trackers, tracker.NewReturn(returns))
			}
			if lengths != "" {
				trackers = append(trackers, tracker.NewEpisodeLength(lengths))
			}

			path, perf, err := a.rollouts(a.model, p, trackers...)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Policy:\n%v\n\n", render.FormatPolicy(p, a.g))
			a.printPath(path)
			fmt.Fprintf(a.out, "Performance: %v\n", perf)

			if a.cfg.PNG == "" {
				return nil
			}
			return a.png(a.cfg.PNG, render.Scene{Grid: a.g, Policy: p,
				Path: path.States, Title: "follow"})
		},
	}

	cmd.Flags().StringVar(&returns, "returns", "",
		"Save the return of every rollout to this file")
	cmd.Flags().StringVar(&lengths, "lengths", "",
		"Save the length of every rollout to this file")
	return cmd
}

func (a *app) compareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare the configured policy under deterministic and " +
			"stochastic transitions",
		Long: `Evaluate the configured policy under deterministic transitions
and under the configured stochastic model, then compare the value of
the start state, the path taken from it and the performance over
repeated rollouts. With --model deterministic the configured wind is
used as the stochastic side.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			p, err := a.cfg.Policy(a.g)
			if err != nil {
				return err
			}
			kind, stochastic := a.cfg.Model.Kind, a.model
			if kind == config.Deterministic {
				kind = config.Wind
				if stochastic, err = environment.NewWindy(a.g,
					a.cfg.Model.Wind); err != nil {
					return err
				}
			}
			ec, err := a.cfg.Solver(agent.PolicyEvaluation)
			if err != nil {
				return err
			}
			c := *ec.(*dp.EvaluationConfig)

			models := []struct {
				name  string
				model environment.Model
			}{
				{config.Deterministic, environment.NewDeterministic(a.g)},
				{kind, stochastic},
			}

			starts := make([]float64, len(models))
			for i, m := range models {
				v, err := dp.Evaluate(m.model, p, c)
				if err != nil {
					return fmt.Errorf("compare: %v: %w", m.name, err)
				}
				path, perf, err := a.rollouts(m.model, p)
				if err != nil {
					return fmt.Errorf("compare: %v: %w", m.name, err)
				}
				starts[i] = v.At(a.g.Start())

				fmt.Fprintf(a.out, "%v\n\n", m.name)
				fmt.Fprintf(a.out, "Values:\n%v\n\n", render.FormatValues(v))
				a.printPath(path)
				fmt.Fprintf(a.out, "Performance: %v\n\n", perf)

				if a.cfg.PNG != "" {
					err := a.png(suffixed(a.cfg.PNG, m.name), render.Scene{
						Grid:   a.g,
						Values: v,
						Policy: p,
						Path:   path.States,
						Title:  m.name,
					})
					if err != nil {
						return err
					}
				}
			}

			fmt.Fprintf(a.out, "Start value: %.2f deterministic, %.2f %v "+
				"(difference %.2f)\n", starts[0], starts[1], kind,
				starts[0]-starts[1])
			return nil
		},
	}
}
