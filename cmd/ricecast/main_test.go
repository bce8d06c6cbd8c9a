package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aouyang1/go-ricecast/feature"
	"github.com/aouyang1/go-ricecast/models"
	"github.com/aouyang1/go-ricecast/panel"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePanel(t *testing.T, path string) {
	t.Helper()
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

	var rows []panel.Row
	for i, region := range []string{"Kab. Bogor", "Kota Bandung"} {
		s, err := panel.GenerateSeries(region, start, 84, 500*float64(i+1), uint64(i))
		require.NoError(t, err)
		for j, ti := range s.T {
			rows = append(rows, panel.Row{
				Date:        panel.Date{Time: ti},
				Region:      region,
				Year:        ti.Year(),
				Month:       int(ti.Month()),
				Latitude:    panel.Float(math.NaN()),
				Longitude:   panel.Float(math.NaN()),
				Target:      panel.Float(s.Value(panel.ColTarget, j)),
				Temperature: panel.Float(s.Value(panel.ColTemperature, j)),
				Rainfall:    panel.Float(s.Value(panel.ColRainfall, j)),
				Humidity:    panel.Float(s.Value(panel.ColHumidity, j)),
			})
		}
	}

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, panel.WriteCSV(file, rows))
}

func writeModel(t *testing.T, path string, schema *feature.Schema, intercept float64) {
	t.Helper()
	data, err := json.Marshal(&models.Linear{
		Kind:      models.KindLinear,
		Intercept: intercept,
		Coef:      make([]float64, schema.Len()),
		Names:     schema.Names(),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RICECAST_ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("RICECAST_DATA", filepath.Join(dir, "panel.csv"))
	t.Setenv("RICECAST_SCHEMA", filepath.Join(dir, "features.json"))
	t.Setenv("RICECAST_SCALER", filepath.Join(dir, "scaler.json"))
	t.Setenv("RICECAST_MODEL_A", filepath.Join(dir, "model_a.json"))
	t.Setenv("RICECAST_MODEL_B", filepath.Join(dir, "model_b.json"))
	t.Setenv("RICECAST_OUT_DIR", filepath.Join(dir, "out"))
	t.Setenv("RICECAST_WORKERS", "2")
	writePanel(t, filepath.Join(dir, "panel.csv"))

	ctx := context.Background()
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(ctx, []string{"prepare"}, &stdout, &stderr))
	assert.FileExists(t, filepath.Join(dir, "features.json"))
	assert.FileExists(t, filepath.Join(dir, "scaler.json"))
	assert.FileExists(t, filepath.Join(dir, "out", "train.csv"))
	assert.FileExists(t, filepath.Join(dir, "out", "test.csv"))

	schema, err := feature.LoadSchema(filepath.Join(dir, "features.json"))
	require.NoError(t, err)
	writeModel(t, filepath.Join(dir, "model_a.json"), schema, 400)
	writeModel(t, filepath.Join(dir, "model_b.json"), schema, 600)

	require.NoError(t, run(ctx, []string{"evaluate"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "blended")

	require.NoError(t, run(ctx, []string{"forecast", "-horizon", "6"}, &stdout, &stderr))
	for _, name := range []string{
		"forecast_kabupaten.csv",
		"forecast_provinsi.csv",
		"forecast.xlsx",
		"forecast.html",
		"forecast_provinsi.png",
	} {
		assert.FileExists(t, filepath.Join(dir, "out", name))
	}

	province, err := os.ReadFile(filepath.Join(dir, "out", "forecast_provinsi.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(province)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "2025-01-01,800,1200,1000", lines[1])
}

func TestRunErrors(t *testing.T) {
	t.Setenv("RICECAST_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), nil, &stdout, &stderr)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	err = run(context.Background(), []string{"train"}, &stdout, &stderr)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	t.Setenv("RICECAST_HORIZON", "twelve")
	err = run(context.Background(), []string{"forecast"}, &stdout, &stderr)
	assert.Error(t, err)
}

func TestLoadConfigEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RICECAST_CLAMP=none\nRICECAST_LAG_DEPTH=6\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("RICECAST_CLAMP")
		os.Unsetenv("RICECAST_LAG_DEPTH")
	})

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Clamp)
	assert.Equal(t, 6, cfg.LagDepth)
	assert.Equal(t, 12, cfg.Horizon)

	opt := cfg.options()
	assert.Equal(t, 6, opt.Rollout.LagDepth)
	assert.EqualValues(t, "none", opt.Rollout.Clamp)
}
