package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/odegrid/internal/model"
	"github.com/specialistvlad/odegrid/internal/testutil"
)

const decayModel = `
	model "decay" {
	  reserved = ["k"]
	}

	component "env" {
	  variable "t" {
	    bind = "time"
	    rhs  = 0
	  }
	}

	component "pool" {
	  variable "k" {
	    rhs = 0.5
	  }
	  variable "x" {
	    state = 10
	    rhs   = -k * x
	  }
	  variable "spare" {
	    rhs = 1
	  }
	}
`

// setupApp writes files to a temporary directory and builds an App for it.
func setupApp(t *testing.T, files map[string]string, mutate func(*Config)) (*App, *testutil.SafeBuffer) {
	t.Helper()
	dir := testutil.WriteFiles(t, files)
	cfg, err := LoadConfig(NewViper(), "", []string{dir})
	require.NoError(t, err)
	cfg.Log.Level = "debug"
	if mutate != nil {
		mutate(cfg)
	}

	logs := &testutil.SafeBuffer{}
	a, err := NewApp(context.Background(), logs, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if os.Getenv("ODEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, logs
}

func TestRun(t *testing.T) {
	a, logs := setupApp(t, map[string]string{"decay.hcl": decayModel}, nil)

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, a.Close(context.Background()))

	assert.True(t, res.Model.IsValid())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, model.WarnUnused, res.Warnings[0].Kind)
	assert.Equal(t, []string{"pool.spare"}, res.Warnings[0].Names)

	var placed []string
	for _, e := range res.Order.All() {
		placed = append(placed, e.Variable.QName())
	}
	assert.Equal(t, []string{"env.t", "pool.k", "pool.spare", "pool.x"}, placed)

	k, err := res.Model.Get("pool.k")
	require.NoError(t, err)
	name, ok := res.Names.Variable(k)
	require.True(t, ok)
	assert.Equal(t, "pool_k", name, "k is reserved by the model file")

	out := logs.String()
	assert.Contains(t, out, "Model loaded.")
	assert.Contains(t, out, "Model is valid.")
	assert.Contains(t, out, "level=WARN")
}

func TestRunRemovesUnused(t *testing.T) {
	a, _ := setupApp(t, map[string]string{"decay.hcl": decayModel}, func(c *Config) {
		c.Validate.RemoveUnused = true
	})

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Model.HasVariable("pool.spare"))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, model.WarnRemovedUnused, res.Warnings[0].Kind)
}

func TestRunReportsCycle(t *testing.T) {
	a, _ := setupApp(t, map[string]string{"loop.hcl": `
		component "c" {
		  variable "a" {
		    label = "a"
		    rhs   = b + 1
		  }
		  variable "b" {
		    rhs = a * 2
		  }
		}
	`}, nil)

	_, err := a.Run(context.Background())
	require.ErrorIs(t, err, model.ErrCycle)
	var cycle *model.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"c.a", "c.b", "c.a"}, cycle.Trail)
	assert.False(t, a.Model().IsValid())
}

func TestStagesNeedAModel(t *testing.T) {
	a, _ := setupApp(t, map[string]string{"decay.hcl": decayModel}, nil)

	require.ErrorIs(t, a.Validate(context.Background()), ErrNoModel)
	_, err := a.Plan(context.Background())
	require.ErrorIs(t, err, ErrNoModel)
	_, err = a.Names(context.Background())
	require.ErrorIs(t, err, ErrNoModel)
}

func TestWriteDiagnostics(t *testing.T) {
	a, _ := setupApp(t, map[string]string{"bad.hcl": `
		component "c" {
		  variable "x" {
		    rhs = missing + 1
		  }
		}
	`}, nil)

	err := a.Load(context.Background())
	require.Error(t, err)

	var out bytes.Buffer
	require.NoError(t, a.WriteDiagnostics(&out, err))
	assert.Contains(t, out.String(), "Invalid equation")
	assert.Contains(t, out.String(), "rhs = missing + 1", "the source line is quoted")
	assert.Contains(t, out.String(), "bad.hcl line 3")
}

func TestMetricsAndTracingFiles(t *testing.T) {
	outDir := t.TempDir()
	metricsFile := filepath.Join(outDir, "odegrid.prom")
	traceFile := filepath.Join(outDir, "spans.json")

	a, _ := setupApp(t, map[string]string{"decay.hcl": decayModel}, func(c *Config) {
		c.Metrics = MetricsConfig{Enabled: true, File: metricsFile}
		c.Tracing = TracingConfig{Enabled: true, File: traceFile}
	})
	_, err := a.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, a.Close(context.Background()))

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `odegrid_validations_total{outcome="valid"} 1`)
	assert.Contains(t, string(metrics), `odegrid_model_states 1`)
	assert.Contains(t, string(metrics), `odegrid_stage_duration_seconds_count{stage="plan"} 1`)

	spans, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	for _, stage := range []string{"load", "validate", "plan", "names"} {
		assert.Contains(t, string(spans), `"Name":"odegrid.`+stage+`"`)
	}
}
