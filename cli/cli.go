// Package cli provides the configuration, flags and logger shared by the binaries.
//
// Settings are layered, later wins: defaults, the YAML file named by
// $INTCODE_CONFIG, INTCODE_* environment variables, command line flags.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go.creack.net/intcode/program"
	"go.creack.net/intcode/vm"
)

// Environment variables.
const (
	EnvConfig    = "INTCODE_CONFIG"
	EnvInput     = "INTCODE_INPUT"
	EnvLogLevel  = "INTCODE_LOG_LEVEL"
	EnvDrawDelay = "INTCODE_DRAW_DELAY"
	EnvWorkers   = "INTCODE_WORKERS"
)

type Config struct {
	Input     string        `yaml:"input"`      // Program image path.
	LogLevel  string        `yaml:"log_level"`  // debug, info, warn, error.
	DrawDelay time.Duration `yaml:"draw_delay"` // Pause between drawn frames.
	Workers   int           `yaml:"workers"`    // Parallel searches, 0 for GOMAXPROCS.

	Trace bool `yaml:"-"` // Log every executed instruction.
}

func DefaultConfig() Config {
	return Config{
		Input:     "input.txt",
		LogLevel:  "info",
		DrawDelay: 50 * time.Millisecond,
	}
}

// LoadFile overrides cfg with the keys present in the YAML file at path.
func (cfg *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode config %q: %w", path, err)
	}
	return nil
}

// LoadEnv overrides cfg with the environment.
func (cfg *Config) LoadEnv() {
	cfg.Input = enve.StringOr(EnvInput, cfg.Input)
	cfg.LogLevel = enve.StringOr(EnvLogLevel, cfg.LogLevel)
	cfg.DrawDelay = enve.DurationOr(EnvDrawDelay, cfg.DrawDelay)
	cfg.Workers = enve.IntOr(EnvWorkers, cfg.Workers)
}

// App is the common state of a binary.
type App struct {
	Name   string
	Config Config
	Flags  *pflag.FlagSet
	RunID  uuid.UUID
	Logger *zap.Logger

	restoreLog func()
}

// New loads the configuration file and environment, then registers the
// common flags with the loaded values as defaults. Binaries add their own
// flags to app.Flags before calling Parse.
func New(name string) (*App, error) {
	cfg := DefaultConfig()
	if path := os.Getenv(EnvConfig); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.LoadEnv()

	a := &App{
		Name:   name,
		Config: cfg,
		Flags:  pflag.NewFlagSet(name, pflag.ContinueOnError),
		RunID:  uuid.New(),
		Logger: zap.NewNop(),
	}
	a.Flags.StringVar(&a.Config.LogLevel, "log-level", a.Config.LogLevel, "log level (debug, info, warn, error)")
	a.Flags.BoolVar(&a.Config.Trace, "trace", false, "log every executed instruction")
	a.Flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options] [%s]\n", name, cfg.Input)
		a.Flags.PrintDefaults()
	}
	return a, nil
}

// Parse parses args (without the program name) and sets up the logger
// on stderr.
func (a *App) Parse(args []string) error {
	if err := a.Flags.Parse(args); err != nil {
		return err
	}
	if a.Flags.NArg() > 0 {
		a.Config.Input = a.Flags.Arg(0)
	}
	level := a.Config.LogLevel
	if a.Config.Trace {
		level = "debug"
	}

	logger, err := NewLogger(os.Stderr, level, IsTerminal(os.Stderr))
	if err != nil {
		return err
	}
	a.SetLogger(logger)
	return nil
}

// SetLogger replaces the logger, tagging it with the app name and run ID.
func (a *App) SetLogger(logger *zap.Logger) {
	if a.restoreLog != nil {
		a.restoreLog()
	}
	a.Logger = logger.With(zap.String("app", a.Name), zap.Stringer("run", a.RunID))
	a.restoreLog = zap.RedirectStdLog(a.Logger)
}

// MachineOptions returns the options every machine of the app gets.
func (a *App) MachineOptions() []vm.Option {
	return []vm.Option{vm.WithLogger(a.Logger)}
}

// LoadProgram parses the configured program image.
func (a *App) LoadProgram() ([]int64, error) {
	cells, err := program.Load(a.Config.Input)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("program loaded", zap.String("path", a.Config.Input), zap.Int("cells", len(cells)))
	return cells, nil
}

// Close flushes the logger.
func (a *App) Close() {
	_ = a.Logger.Sync() // Best effort, stderr can't always be synced.
	if a.restoreLog != nil {
		a.restoreLog()
	}
}

// Fatal logs err, flushes the logger and exits 1.
func (a *App) Fatal(err error) {
	a.Logger.Error("fatal", zap.Error(err))
	a.Close()
	os.Exit(1)
}

// ParseValues parses a comma separated list of integers, as given to -i.
func ParseValues(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	values, err := program.Parse("input values", s)
	if err != nil {
		return nil, fmt.Errorf("invalid input values: %w", err)
	}
	return values, nil
}

// IsHelp reports whether err is the result of -h/--help.
func IsHelp(err error) bool { return errors.Is(err, pflag.ErrHelp) }
