package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samuelfneumann/gridmdp/agent/policy"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/experiment"
	"github.com/samuelfneumann/gridmdp/experiment/tracker"
	"github.com/samuelfneumann/gridmdp/render"
	"github.com/samuelfneumann/gridmdp/table"
)

// newEnv returns an environment over model m starting every episode in
// the grid's start state
func (a *app) newEnv(m environment.Model) *gridworld.GridWorld {
	g := m.Spec()
	env, _ := gridworld.New(m, environment.NewSingleStarter(g.Start()),
		environment.NewStepLimit(a.cfg.MaxSteps), 1.0, a.cfg.Seed)
	return env
}

// rollouts follows p from the start state once for every configured
// episode, feeding the trackers
func (a *app) rollouts(m environment.Model, p *table.Policy,
	t ...tracker.Tracker) (experiment.Path, experiment.Performance, error) {
	env := a.newEnv(m)
	tab := policy.NewTabular(p)

	path, err := experiment.Follow(env, tab)
	if err != nil {
		return path, experiment.Performance{}, err
	}

	o := experiment.NewOnline(env, tab, a.cfg.Episodes, t...)
	if err := o.Run(); err != nil {
		return path, experiment.Performance{}, err
	}
	if err := o.Save(); err != nil {
		return path, experiment.Performance{}, err
	}
	return path, o.Performance(), nil
}

// report prints the tables, the path the policy takes from the start
// state and its performance over repeated rollouts, and renders them
// if a PNG file is configured
func (a *app) report(title string, v *table.Value, p *table.Policy) error {
	path, perf, err := a.rollouts(a.model, p)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%v (%v model)\n\n", title, a.cfg.Model.Kind)
	fmt.Fprintf(a.out, "Values:\n%v\n\n", render.FormatValues(v))
	fmt.Fprintf(a.out, "Policy:\n%v\n\n", render.FormatPolicy(p, a.g))
	a.printPath(path)
	fmt.Fprintf(a.out, "Performance: %v\n", perf)

	if a.cfg.PNG == "" {
		return nil
	}
	return a.png(a.cfg.PNG, render.Scene{
		Grid:   a.g,
		Values: v,
		Policy: p,
		Path:   path.States,
		Title:  title,
	})
}

func (a *app) printPath(path experiment.Path) {
	fmt.Fprintf(a.out, "Path: %v\n", render.FormatPath(path.States))
	fmt.Fprintf(a.out, "Path length: %d steps  |  total reward: %.2f  |  "+
		"efficiency: %.2f reward/step  |  reached goal: %v\n", path.Len(),
		path.Total(), path.Efficiency(), path.Reached())
}

func (a *app) png(filename string, s render.Scene) error {
	if err := render.PNG(filename, s); err != nil {
		return err
	}
	a.logger.Info().Str("file", filename).Msg("rendered png")
	return nil
}

// suffixed inserts suffix before the extension of filename
func suffixed(filename, suffix string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "-" + suffix + ext
}
