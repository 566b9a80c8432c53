package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/negamax"
)

const (
	ConfigDebug            = "debug"
	ConfigTTCapacity       = "tt-capacity"
	ConfigTTMemoryFraction = "tt-memory-fraction"
	ConfigNotation         = "notation"
	ConfigBenchRuns        = "bench-runs"
	ConfigBenchThreads     = "bench-threads"
	ConfigBenchSuite       = "bench-suite"
	ConfigBenchRandom      = "bench-random"
	ConfigBenchOutput      = "bench-output"
	ConfigCPUProfile       = "cpu-profile"
	ConfigMemProfile       = "mem-profile"
	ConfigHistoryFile      = "history-file"
)

const envPrefix = "connect4"

var ErrInvalidSetting = errors.New("invalid setting")

type Config struct {
	*viper.Viper
	remaining []string
}

// DefaultConfig returns a config holding only default values.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	setDefaults(c.Viper)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigTTCapacity, negamax.DefaultCapacity)
	v.SetDefault(ConfigTTMemoryFraction, 0.25)
	v.SetDefault(ConfigNotation, int(board.ZeroBased))
	v.SetDefault(ConfigBenchRuns, 1)
	v.SetDefault(ConfigBenchThreads, 1)
	v.SetDefault(ConfigBenchSuite, "")
	v.SetDefault(ConfigBenchRandom, 0)
	v.SetDefault(ConfigBenchOutput, "")
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
	v.SetDefault(ConfigHistoryFile, "/tmp/connect4-readline.tmp")
}

// Load reads command-line flags and CONNECT4_* environment variables, in
// that order of precedence, over the defaults. Parsing stops at the first
// argument that is not a flag; the rest is available from RemainingArgs.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("connect4", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "turn on debug logging")
	fs.Int(ConfigTTCapacity, negamax.DefaultCapacity, "transposition table buckets; 0 sizes the table from tt-memory-fraction")
	fs.Float64(ConfigTTMemoryFraction, 0.25, "fraction of system memory for the transposition table when tt-capacity is 0")
	fs.Int(ConfigNotation, int(board.ZeroBased), "first column label in move strings: 0 or 1")
	fs.Int(ConfigBenchRuns, 1, "how many times the bench solves each position")
	fs.Int(ConfigBenchThreads, 1, "bench worker goroutines, each with its own solver")
	fs.String(ConfigBenchSuite, "", "YAML file of bench positions")
	fs.Int(ConfigBenchRandom, 0, "add this many random positions to the bench suite")
	fs.String(ConfigBenchOutput, "", "write the bench report as YAML to this file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	fs.String(ConfigHistoryFile, "/tmp/connect4-readline.tmp", "readline history file for the shell")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.remaining = fs.Args()
	return c.Validate()
}

// RemainingArgs returns the arguments after the flags, as seen by the last
// Load.
func (c *Config) RemainingArgs() []string {
	return c.remaining
}

func (c *Config) Validate() error {
	if !c.Notation().Valid() {
		return fmt.Errorf("%w: %s must be 0 or 1, got %d", ErrInvalidSetting,
			ConfigNotation, c.GetInt(ConfigNotation))
	}
	if c.GetInt(ConfigTTCapacity) < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidSetting, ConfigTTCapacity)
	}
	if f := c.GetFloat64(ConfigTTMemoryFraction); f <= 0 || f > 1 {
		return fmt.Errorf("%w: %s must be in (0, 1], got %v", ErrInvalidSetting,
			ConfigTTMemoryFraction, f)
	}
	if c.GetInt(ConfigBenchRuns) < 1 {
		return fmt.Errorf("%w: %s must be at least 1", ErrInvalidSetting, ConfigBenchRuns)
	}
	if c.GetInt(ConfigBenchThreads) < 1 {
		return fmt.Errorf("%w: %s must be at least 1", ErrInvalidSetting, ConfigBenchThreads)
	}
	if c.GetInt(ConfigBenchRandom) < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidSetting, ConfigBenchRandom)
	}
	return nil
}

// TTCapacity is the number of transposition table buckets to allocate.
func (c *Config) TTCapacity() int {
	if capacity := c.GetInt(ConfigTTCapacity); capacity > 0 {
		return capacity
	}
	return negamax.CapacityForMemory(c.GetFloat64(ConfigTTMemoryFraction))
}

func (c *Config) Notation() board.Notation {
	return board.Notation(c.GetInt(ConfigNotation))
}

// SanitizedSettings returns the settings worth logging: everything that
// is not an empty string.
func (c *Config) SanitizedSettings() map[string]any {
	return lo.OmitBy(c.AllSettings(), func(_ string, v any) bool {
		return v == ""
	})
}
