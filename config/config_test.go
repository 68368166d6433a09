package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/agent/dp"
	"github.com/samuelfneumann/gridmdp/agent/montecarlo"
	"github.com/samuelfneumann/gridmdp/agent/td"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/examples"
	"github.com/samuelfneumann/gridmdp/grid"
)

const custom = `
grid:
  size: 3
  rewards:
    - [-1, -1, 10]
    - [-1, -2, -1]
    - [-1, -1, -1]
  start: [2, 0]
  terminal: [0, 2]
  policy: ["EEN", "EEN", "EEN"]
model:
  kind: drift
seed: 9
value_iteration:
  discount: 0.9
  threshold: 0.001
td_nstep:
  steps: 2
  truncate: true
`

func write(t *testing.T, contents string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "gridmdp.yaml")
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o600))
	return file
}

func TestDefaultIsStandardGrid(t *testing.T) {
	c, err := Load(New(), "")
	require.NoError(t, err)

	g, err := c.Spec()
	require.NoError(t, err)
	assert.Equal(t, examples.Standard().Rewards(), g.Rewards())

	p, err := c.Policy(g)
	require.NoError(t, err)
	assert.Equal(t, examples.StandardPolicy().Rows(), p.Rows())

	m, err := c.TransitionModel(g)
	require.NoError(t, err)
	assert.IsType(t, &environment.Deterministic{}, m)
}

func TestLoadFile(t *testing.T) {
	c, err := Load(New(), write(t, custom))
	require.NoError(t, err)

	g, err := c.Spec()
	require.NoError(t, err)
	assert.Equal(t, 3, g.N())
	assert.Equal(t, grid.State{Row: 0, Col: 2}, g.Terminal())

	m, err := c.TransitionModel(g)
	require.NoError(t, err)
	windy, ok := m.(*environment.Windy)
	require.True(t, ok)
	assert.Equal(t, environment.DefaultDrift(), windy.Weights())

	sc, err := c.Solver(agent.ValueIteration)
	require.NoError(t, err)
	vi := sc.(*dp.ValueIterationConfig)
	assert.Equal(t, 0.9, vi.Discount)
	assert.Equal(t, 0.001, vi.Threshold)
	assert.Equal(t, dp.DefaultConfig().MaxSweeps, vi.MaxSweeps)

	sc, err = c.Solver(agent.NStepTDPrediction)
	require.NoError(t, err)
	nc := sc.(*td.NStepConfig)
	assert.Equal(t, 2, nc.Steps)
	assert.True(t, nc.Truncate)
	assert.Equal(t, uint64(9), nc.Seed)
	assert.Equal(t, td.DefaultPredictionConfig().Epochs, nc.Epochs)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("GRIDMDP_MODEL_KIND", "wind")
	t.Setenv("GRIDMDP_GRID_NAME", "simple")

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, Wind, c.Model.Kind)

	g, err := c.Spec()
	require.NoError(t, err)
	assert.Equal(t, 3, g.N())

	m, err := c.TransitionModel(g)
	require.NoError(t, err)
	assert.Len(t, m.Outcomes(g.Start(), grid.North), 6)
}

func TestSolverEnvironmentOverrides(t *testing.T) {
	t.Setenv("GRIDMDP_VALUE_ITERATION_THRESHOLD", "0.01")
	t.Setenv("GRIDMDP_TD_NSTEP_STEPS", "3")
	t.Setenv("GRIDMDP_TD_NSTEP_LEARNING_RATE", "0.2")
	t.Setenv("GRIDMDP_MC_CONTROL_EXPLORING_STARTS", "true")
	t.Setenv("GRIDMDP_SEED", "4")

	c, err := Load(New(), write(t, "value_iteration:\n  discount: 0.9\n"))
	require.NoError(t, err)

	sc, err := c.Solver(agent.ValueIteration)
	require.NoError(t, err)
	vi := sc.(*dp.ValueIterationConfig)
	assert.Equal(t, 0.01, vi.Threshold)
	assert.Equal(t, 0.9, vi.Discount)
	assert.Equal(t, dp.DefaultConfig().MaxSweeps, vi.MaxSweeps)

	sc, err = c.Solver(agent.NStepTDPrediction)
	require.NoError(t, err)
	nc := sc.(*td.NStepConfig)
	assert.Equal(t, 3, nc.Steps)
	assert.Equal(t, 0.2, nc.LearningRate)
	assert.Equal(t, uint64(4), nc.Seed)

	sc, err = c.Solver(agent.MonteCarloControl)
	require.NoError(t, err)
	assert.True(t, sc.(*montecarlo.ControlConfig).ExploringStarts)
}

func TestInvalidConfig(t *testing.T) {
	_, err := Load(New(), write(t, "model:\n  kind: hurricane\n"))
	assert.Error(t, err)

	_, err = Load(New(), write(t, "grid:\n  name: huge\n"))
	assert.Error(t, err)

	c, err := Load(New(), write(t, "value_iteration:\n  discount: 2\n"))
	require.NoError(t, err)
	_, err = c.Solver(agent.ValueIteration)
	assert.ErrorIs(t, err, agent.ErrInvalidConfig)

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
