package td

import (
	"github.com/rs/zerolog"

	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
)

func newEnv(m environment.Model, s environment.Starter, maxSteps int,
	discount float64, seed uint64) *gridworld.GridWorld {
	env, _ := gridworld.New(m, s, environment.NewStepLimit(maxSteps),
		discount, seed)
	return env
}

func warnTruncated(l *zerolog.Logger, episodes, maxSteps int) {
	if episodes == 0 {
		return
	}
	l.Warn().
		Int("episodes", episodes).
		Int("max_steps", maxSteps).
		Msg("episodes truncated by the step budget")
}
