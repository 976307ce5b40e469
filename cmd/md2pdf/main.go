package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	md2pdf "github.com/caojiachen1/md2pdf"
	"github.com/caojiachen1/md2pdf/internal/config"
	"github.com/caojiachen1/md2pdf/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()
	os.Exit(run(os.Args[1:], env))
}

// run dispatches to a subcommand and returns the process exit code.
func run(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "convert":
		return runConvertCommand(args[1:], env)
	case "version":
		fmt.Fprintf(env.Stdout, "md2pdf %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(args[1:], env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// runConvertCommand parses flags, loads configuration, sets up the converter
// pool, and runs the conversion under a signal-aware context.
func runConvertCommand(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	configureMaxProcs(flags.common.verbose, env)

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	opts, err := converterOptions(flags, cfg)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	poolSize := md2pdf.ResolvePoolSize(flags.workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := md2pdf.NewConverterPool(poolSize, opts...)
	defer pool.Close()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, cfg, newPoolAdapter(pool), env); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// loadConfig loads the named config file, or defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// configureMaxProcs adjusts GOMAXPROCS for container CPU limits.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func configureMaxProcs(verbose bool, env *Environment) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}
}

// converterOptions translates flags and config into library options.
// Flags win over config values.
func converterOptions(flags *convertFlags, cfg *config.Config) ([]md2pdf.Option, error) {
	var opts []md2pdf.Option

	timeout := time.Duration(cfg.Browser.TimeoutSeconds) * time.Second
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid timeout %q (use e.g. 30s, 2m)", flags.timeout)
		}
		timeout = d
	}
	if timeout > 0 {
		opts = append(opts, md2pdf.WithTimeout(timeout))
	}

	if cfg.Assets.Dir != "" {
		opts = append(opts, md2pdf.WithKatexDir(cfg.Assets.Dir))
	}
	if cfg.Browser.Bin != "" {
		opts = append(opts, md2pdf.WithBrowserBin(cfg.Browser.Bin))
	}

	return opts, nil
}
