// Package experiment implements functionality for running policies in
// gridworld environments and measuring how well they perform
package experiment

import (
	"github.com/samuelfneumann/gridmdp/experiment/tracker"
	ts "github.com/samuelfneumann/gridmdp/timestep"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function will then take
// all cached data and save it to disk. The Run() method will run all
// episodes of the experiment, and the RunEpisode() function will run a
// single episode.
//
// Experiments send each TimeStep to their Trackers using the Tracker's
// Track() method. New Trackers can be registered with an Experiment
// through the constructor or through an Experiment's Register()
// function.
type Experiment interface {
	Run() error

	// RunEpisode returns whether the episode budget has been used up
	RunEpisode() (bool, error)

	// Tracks current timestep by sending it to Trackers
	track(ts.TimeStep)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}
