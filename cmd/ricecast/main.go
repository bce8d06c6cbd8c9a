// Command ricecast prepares training data, evaluates trained models and forecasts the next
// year of monthly rice production for every region of a historical panel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aouyang1/go-ricecast"
	"github.com/aouyang1/go-ricecast/panel"
	"github.com/aouyang1/go-ricecast/report"
	"github.com/rs/zerolog"
)

var ErrUnknownCommand = errors.New("unknown command")

const usage = `usage: ricecast <command> [flags]

commands:
  prepare   build features, fit the scaler and write the training and test design matrices
  evaluate  score both models and their blend on the test years
  forecast  roll every region forward and write the forecast tables and charts
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return ErrUnknownCommand
	}

	cfg, err := loadConfig(getenv("RICECAST_ENV_FILE", ".env"))
	if err != nil {
		return err
	}
	fset := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fset.SetOutput(stderr)
	cfg.bindFlags(fset)
	if err := fset.Parse(args[1:]); err != nil {
		return err
	}

	log, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	switch args[0] {
	case "prepare":
		return prepare(cfg, log)
	case "evaluate":
		return evaluate(cfg, stdout, log)
	case "forecast":
		return forecast(ctx, cfg, log)
	}
	fmt.Fprint(stderr, usage)
	return fmt.Errorf("%q, %w", args[0], ErrUnknownCommand)
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

func prepare(cfg Config, log zerolog.Logger) error {
	p, err := panel.LoadCSV(cfg.Data)
	if err != nil {
		return err
	}
	prep, err := ricecast.Prepare(p, cfg.options())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}
	if err := prep.Schema.Save(cfg.Schema); err != nil {
		return err
	}
	if err := prep.Scaler.Save(cfg.Scaler); err != nil {
		return err
	}
	names := prep.Schema.Names()
	if err := report.SaveDesign(cfg.out("train.csv"), names, panel.ColTarget, prep.Train.X, prep.Train.Y); err != nil {
		return err
	}
	if prep.Test.Len() > 0 {
		if err := report.SaveDesign(cfg.out("test.csv"), names, panel.ColTarget, prep.Test.X, prep.Test.Y); err != nil {
			return err
		}
	}
	log.Info().
		Int("features", len(names)).
		Int("train_rows", prep.Train.Len()).
		Int("test_rows", prep.Test.Len()).
		Int("dropped_rows", prep.Dropped).
		Str("out", cfg.OutDir).
		Msg("prepared training data")
	return nil
}

func evaluate(cfg Config, stdout io.Writer, log zerolog.Logger) error {
	p, err := panel.LoadCSV(cfg.Data)
	if err != nil {
		return err
	}
	f, err := ricecast.NewFromArtifacts(cfg.options(), log)
	if err != nil {
		return err
	}
	eval, err := f.Evaluate(p)
	if err != nil {
		return err
	}
	return eval.TablePrint(stdout)
}

func forecast(ctx context.Context, cfg Config, log zerolog.Logger) error {
	p, err := panel.LoadCSV(cfg.Data)
	if err != nil {
		return err
	}
	f, err := ricecast.NewFromArtifacts(cfg.options(), log)
	if err != nil {
		return err
	}
	res, err := f.Forecast(ctx, p)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}
	if err := report.SaveCSV(cfg.out("forecast_kabupaten.csv"), cfg.out("forecast_provinsi.csv"), res); err != nil {
		return err
	}
	if err := report.SaveXLSX(cfg.out("forecast.xlsx"), res); err != nil {
		return err
	}
	if err := report.SaveHTML(cfg.out("forecast.html"), res); err != nil {
		return err
	}
	if err := report.SavePNG(cfg.out("forecast_provinsi.png"), res.Province()); err != nil {
		return err
	}
	log.Info().Str("out", cfg.OutDir).Msg("wrote forecast tables and charts")
	return nil
}
