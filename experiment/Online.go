package experiment

import (
	"errors"
	"fmt"

	"github.com/samuelfneumann/gridmdp/agent"
	env "github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/experiment/tracker"
	"github.com/samuelfneumann/gridmdp/grid"
	ts "github.com/samuelfneumann/gridmdp/timestep"
)

// Online is an Experiment that rolls out a fixed policy for a number
// of episodes, recording the path of each episode
type Online struct {
	env.Environment
	agent.Policy
	episodes        int
	currentEpisodes int
	trackers        []tracker.Tracker
	paths           []Path
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given policy. The episodes parameter determines
// how many episodes the experiment is run for, and the t parameter
// is a slice of tracker.Tracker which determine what data is saved.
func NewOnline(e env.Environment, p agent.Policy, episodes int,
	t ...tracker.Tracker) *Online {
	return &Online{Environment: e, Policy: p, episodes: episodes,
		trackers: t}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment
func (o *Online) RunEpisode() (bool, error) {
	step := o.Environment.Reset()
	o.track(step)
	path := Path{States: []grid.State{step.Observation}}

	for !step.Last() {
		action := o.Policy.SelectAction(step)
		next, _, err := o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		step = next

		o.track(step)
		path.States = append(path.States, step.Observation)
		path.Rewards = append(path.Rewards, step.Reward)
	}

	path.End = step.EndType
	o.paths = append(o.paths, path)
	o.currentEpisodes++

	return o.currentEpisodes >= o.episodes, nil
}

// Run runs the entire experiment for all episodes
func (o *Online) Run() error {
	for o.currentEpisodes < o.episodes {
		if _, err := o.RunEpisode(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}
	return nil
}

// Paths returns the paths of all episodes run so far
func (o *Online) Paths() []Path {
	return o.paths
}

// Performance summarizes the episodes run so far
func (o *Online) Performance() Performance {
	return Analyze(o.paths)
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		errs = append(errs, t.Save())
	}
	return errors.Join(errs...)
}

// track tracks the current timestep by caching its data in each
// Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}
