package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aouyang1/go-ricecast"
	"github.com/aouyang1/go-ricecast/panel"
	"github.com/aouyang1/go-ricecast/rollout"
	"github.com/joho/godotenv"
)

// Config is read from the environment, optionally seeded from a .env file, and then
// overridden by command line flags.
type Config struct {
	Data        string
	Schema      string
	Scaler      string
	ModelA      string
	ModelB      string
	OutDir      string
	LagDepth    int
	Horizon     int
	Clamp       string
	ClimateFill string
	Workers     int
	LogLevel    string
}

func loadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("unable to load %s, %w", envFile, err)
	}

	def := ricecast.NewDefaultOptions()
	cfg := Config{
		Data:        getenv("RICECAST_DATA", "data_cleaned_for_modeling.csv"),
		Schema:      getenv("RICECAST_SCHEMA", def.Artifacts.Schema),
		Scaler:      getenv("RICECAST_SCALER", def.Artifacts.Scaler),
		ModelA:      getenv("RICECAST_MODEL_A", def.Artifacts.ModelA),
		ModelB:      getenv("RICECAST_MODEL_B", def.Artifacts.ModelB),
		OutDir:      getenv("RICECAST_OUT_DIR", "."),
		Clamp:       getenv("RICECAST_CLAMP", string(def.Rollout.Clamp)),
		ClimateFill: getenv("RICECAST_CLIMATE_FILL", string(def.Rollout.ClimateFill)),
		LogLevel:    getenv("RICECAST_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.LagDepth, err = getenvInt("RICECAST_LAG_DEPTH", def.Rollout.LagDepth); err != nil {
		return Config{}, err
	}
	if cfg.Horizon, err = getenvInt("RICECAST_HORIZON", def.Rollout.Horizon); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = getenvInt("RICECAST_WORKERS", def.Rollout.Parallelization); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer, %w", k, v, err)
	}
	return n, nil
}

// bindFlags registers one flag per field using the current values as defaults.
func (c *Config) bindFlags(fset *flag.FlagSet) {
	fset.StringVar(&c.Data, "data", c.Data, "historical panel csv")
	fset.StringVar(&c.Schema, "schema", c.Schema, "feature schema json")
	fset.StringVar(&c.Scaler, "scaler", c.Scaler, "fitted min-max scaler json")
	fset.StringVar(&c.ModelA, "model-a", c.ModelA, "random forest model (json tree ensemble)")
	fset.StringVar(&c.ModelB, "model-b", c.ModelB, "gradient boosting model (lightgbm txt or json tree ensemble)")
	fset.StringVar(&c.OutDir, "out", c.OutDir, "output directory")
	fset.IntVar(&c.LagDepth, "lag-depth", c.LagDepth, "months of lagged history per feature")
	fset.IntVar(&c.Horizon, "horizon", c.Horizon, "months to forecast")
	fset.StringVar(&c.Clamp, "clamp", c.Clamp, "clamp policy: non_negative or none")
	fset.StringVar(&c.ClimateFill, "climate-fill", c.ClimateFill, "covariates of forecast months: climatology, persistence or none")
	fset.IntVar(&c.Workers, "workers", c.Workers, "regions rolled out in parallel")
	fset.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
}

func (c Config) options() *ricecast.Options {
	opt := ricecast.NewDefaultOptions()
	opt.Rollout.LagDepth = c.LagDepth
	opt.Rollout.Horizon = c.Horizon
	opt.Rollout.Clamp = rollout.ClampPolicy(c.Clamp)
	opt.Rollout.ClimateFill = panel.ClimateFill(c.ClimateFill)
	opt.Rollout.Parallelization = c.Workers
	opt.Artifacts = ricecast.Artifacts{
		Schema: c.Schema,
		Scaler: c.Scaler,
		ModelA: c.ModelA,
		ModelB: c.ModelB,
	}
	return opt
}

func (c Config) out(name string) string {
	return filepath.Join(c.OutDir, name)
}
