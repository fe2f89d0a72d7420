package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/normalize"
	"github.com/cwbudde/algo-pick/scan"
	"github.com/cwbudde/algo-pick/score"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seispick.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultMatchesPackages(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	sc, err := c.ScanConfig()
	require.NoError(t, err)
	want := scan.DefaultConfig()
	want.Targets = []string{"P", "S"}
	require.Equal(t, want, sc)

	require.Equal(t, []string{"P", "S", "N"}, c.Classes)
	require.Equal(t, logrus.InfoLevel, c.Level())
	require.Equal(t, 60*time.Second, c.Model.Timeout)
	require.True(t, c.Preprocess.Detrend)
	require.Equal(t, 100.0, c.Preprocess.SampleRate)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
log_level: debug
classes: [p, s, noise]
targets: [p]
window:
  shift: 20
normalization:
  scope: per-channel
restore:
  offset: 200
  fill: zero
peak:
  threshold: 0.6
model:
  timeout: 5s
report:
  upper_case: false
`)
	c, err := Load(viper.New(), path)
	require.NoError(t, err)

	require.Equal(t, logrus.DebugLevel, c.Level())
	sc, err := c.ScanConfig()
	require.NoError(t, err)
	require.Equal(t, 400, sc.Features)
	require.Equal(t, 20, sc.Shift)
	require.Equal(t, normalize.ScopePerChannel, sc.Normalization.Scope)
	require.Equal(t, scan.RestoreConfig{Offset: 200, Fill: score.FillZero}, sc.Restore)
	require.Equal(t, 0.6, sc.Peak.Threshold)
	require.Equal(t, 100, sc.Peak.HalfWindow)
	require.Equal(t, []string{"p"}, sc.Targets)
	require.Equal(t, 5*time.Second, c.Model.Timeout)
	require.False(t, c.Formatter().UpperCase)
	require.Equal(t, 2, c.Formatter().Precision)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "peak:\n  threshold: 0.6\n")
	t.Setenv("SEISPICK_PEAK_THRESHOLD", "0.9")
	t.Setenv("SEISPICK_MODEL_URL", "http://model:8501")

	c, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, 0.9, c.Peak.Threshold)

	client, err := c.Scorer()
	require.NoError(t, err)
	require.Equal(t, "http://model:8501/v1/models/seismo:predict", client.Endpoint())
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"threshold":     "peak:\n  threshold: 1.5\n",
		"scope":         "normalization:\n  scope: sideways\n",
		"fill":          "restore:\n  fill: spline\n",
		"target":        "targets: [X]\n",
		"target case":   "targets: [p]\n",
		"timeout":       "model:\n  timeout: 0s\n",
		"duplicate":     "classes: [P, P]\n",
		"log level":     "log_level: loud\n",
		"precision":     "report:\n  precision: -1\n",
		"highpass":      "preprocess:\n  highpass: 0\n",
		"empty output":  "report:\n  output: \"\"\n",
		"window length": "window:\n  features: 0\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(viper.New(), writeFile(t, body))
			require.ErrorIs(t, err, core.ErrConfiguration)
		})
	}
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, Default()))

	var back Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	require.Equal(t, Default(), back)
	require.Contains(t, buf.String(), "half_window: 100")
	require.Contains(t, buf.String(), "timeout: 1m0s")
}
