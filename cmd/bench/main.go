package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/bench"
	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/config"
)

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "could not load config:", err)
		os.Exit(1)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("bench-failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	suite := bench.DefaultSuite()
	if path := cfg.GetString(config.ConfigBenchSuite); path != "" {
		var err error
		suite, err = bench.LoadSuite(path)
		if err != nil {
			return err
		}
	}
	if n := cfg.GetInt(config.ConfigBenchRandom); n > 0 {
		suite.Positions = append(suite.Positions,
			bench.RandomSuite(n, board.Size-16, board.Size-12).Positions...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := &bench.Runner{
		Threads:  cfg.GetInt(config.ConfigBenchThreads),
		Runs:     cfg.GetInt(config.ConfigBenchRuns),
		Capacity: cfg.TTCapacity(),
	}
	report, err := runner.Run(ctx, suite)
	if err != nil {
		return err
	}
	fmt.Print(report.String())

	if path := cfg.GetString(config.ConfigBenchOutput); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.WriteYAML(f); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote-bench-report")
	}
	return nil
}
