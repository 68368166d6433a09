package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/agent/dp"
	"github.com/samuelfneumann/gridmdp/config"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/examples"
	"github.com/samuelfneumann/gridmdp/experiment/tracker"
	"github.com/samuelfneumann/gridmdp/table"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), errOut.String())
	return out.String()
}

func TestValueIterationCommand(t *testing.T) {
	png := filepath.Join(t.TempDir(), "vi.png")
	out := run(t, "value-iteration", "--grid", "simple", "--episodes", "5",
		"--log-level", "error", "--png", png)

	assert.Contains(t, out, "Values:")
	assert.Contains(t, out, "Policy:")
	assert.Contains(t, out, "reached goal: true")
	_, err := os.Stat(png)
	assert.NoError(t, err)
}

func TestEverySolverCommandRuns(t *testing.T) {
	config := filepath.Join(t.TempDir(), "gridmdp.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
grid:
  name: simple
mc_prediction:
  sweeps: 5
mc_control:
  episodes: 50
td_prediction:
  epochs: 5
td_nstep:
  epochs: 5
  truncate: true
td_control:
  episodes: 50
`), 0o600))

	for _, c := range []string{"evaluate", "value-iteration",
		"policy-iteration", "mc-predict", "mc-control", "td-predict",
		"td-nstep", "td-control"} {
		t.Run(c, func(t *testing.T) {
			out := run(t, c, "--config", config, "--episodes", "3",
				"--max-steps", "50", "--log-level", "error")
			assert.Contains(t, out, "Values:")
			assert.Contains(t, out, "Performance:")
		})
	}
}

func TestFollowSavesTrackers(t *testing.T) {
	dir := t.TempDir()
	returns := filepath.Join(dir, "returns.bin")
	out := run(t, "follow", "--grid", "simple", "--episodes", "4",
		"--returns", returns, "--log-level", "error")
	assert.Contains(t, out, "(2, 0) → (2, 1)")

	data, err := tracker.LoadData(returns)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 7, 7, 7}, data)
}

func TestCompareCommand(t *testing.T) {
	png := filepath.Join(t.TempDir(), "compare.png")
	out := run(t, "compare", "--episodes", "10", "--log-level", "error",
		"--png", png)
	assert.Contains(t, out, "deterministic")
	assert.Contains(t, out, "wind")
	assert.Contains(t, out, "Start value:")

	for _, suffix := range []string{"deterministic", "wind"} {
		_, err := os.Stat(suffixed(png, suffix))
		assert.NoError(t, err)
	}
}

// startValue evaluates the simple example policy under m
func startValue(t *testing.T, m environment.Model) float64 {
	t.Helper()
	c, err := agent.NewConfig(agent.PolicyEvaluation)
	require.NoError(t, err)
	v, err := dp.Evaluate(m, examples.SimplePolicy(),
		*c.(*dp.EvaluationConfig))
	require.NoError(t, err)
	return v.At(m.Spec().Start())
}

func TestCompareUsesConfiguredModel(t *testing.T) {
	g := examples.Simple()
	drift, err := environment.NewWindy(g, environment.DefaultDrift())
	require.NoError(t, err)
	det := startValue(t, environment.NewDeterministic(g))
	want := startValue(t, drift)

	png := filepath.Join(t.TempDir(), "compare.png")
	out := run(t, "compare", "--grid", "simple", "--model", "drift",
		"--episodes", "5", "--log-level", "error", "--png", png)

	assert.Contains(t, out, fmt.Sprintf(
		"Start value: %.2f deterministic, %.2f drift (difference %.2f)",
		det, want, det-want))
	assert.NotContains(t, out, "wind")

	_, err = os.Stat(suffixed(png, "drift"))
	assert.NoError(t, err)
	_, err = os.Stat(suffixed(png, "wind"))
	assert.True(t, os.IsNotExist(err))
}

func TestPolicyIterationStartsFromConfiguredPolicy(t *testing.T) {
	west := []string{"WWW", "WWW", "WWW"}

	for _, test := range []struct {
		name string
		rows []string
		want func() *table.Policy
	}{
		{"Configured", west, func() *table.Policy {
			p, err := table.ParsePolicy(west)
			require.NoError(t, err)
			return p
		}},
		{"Toward", nil, func() *table.Policy {
			return table.TowardPolicy(examples.Simple())
		}},
	} {
		t.Run(test.name, func(t *testing.T) {
			a := &app{v: config.New(), out: &bytes.Buffer{},
				errOut: &bytes.Buffer{}}
			a.v.Set("grid.name", "simple")
			if test.rows != nil {
				a.v.Set("grid.policy", test.rows)
			}
			require.NoError(t, a.setup(nil, nil))

			s, budget, err := a.newSolver(agent.PolicyIteration)
			require.NoError(t, err)
			assert.Zero(t, budget)
			assert.True(t, test.want().Equal(s.Policy(), a.g))
		})
	}
}

func TestHelpListsSolverSections(t *testing.T) {
	out := run(t, "--help")
	for _, section := range []string{"evaluation", "value_iteration",
		"policy_iteration", "mc_prediction", "mc_control",
		"td_prediction", "td_nstep", "td_control"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, string(agent.NStepTDPrediction))
}

func TestInvalidModelFails(t *testing.T) {
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs([]string{"evaluate", "--model", "hurricane"})
	assert.Error(t, root.Execute())
}
