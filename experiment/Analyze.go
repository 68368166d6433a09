package experiment

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Performance summarizes the paths of repeated rollouts of a policy
type Performance struct {
	Episodes int

	MeanReturn float64
	StdReturn  float64
	MeanLength float64

	// SuccessRate is the fraction of paths that reached the terminal
	// state
	SuccessRate float64

	// Efficiency is the mean reward per move
	Efficiency float64
}

// Analyze summarizes the performance of a policy over paths. It panics
// if paths is empty.
func Analyze(paths []Path) Performance {
	if len(paths) == 0 {
		panic("analyze: no paths to analyze")
	}

	returns := make([]float64, len(paths))
	lengths := make([]float64, len(paths))
	efficiency := make([]float64, len(paths))
	successes := 0
	for i, p := range paths {
		returns[i] = p.Total()
		lengths[i] = float64(p.Len())
		efficiency[i] = p.Efficiency()
		if p.Reached() {
			successes++
		}
	}

	mean, std := stat.MeanStdDev(returns, nil)
	if len(paths) == 1 {
		std = 0
	}

	return Performance{
		Episodes:    len(paths),
		MeanReturn:  mean,
		StdReturn:   std,
		MeanLength:  stat.Mean(lengths, nil),
		SuccessRate: float64(successes) / float64(len(paths)),
		Efficiency:  stat.Mean(efficiency, nil),
	}
}

func (p Performance) String() string {
	return fmt.Sprintf("episodes: %d  |  return: %.2f ± %.2f  |  "+
		"length: %.2f  |  success: %.2f  |  efficiency: %.2f reward/step",
		p.Episodes, p.MeanReturn, p.StdReturn, p.MeanLength, p.SuccessRate,
		p.Efficiency)
}
