package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"proxycheck/internal/shared/config"
	"proxycheck/internal/shared/logger"
	"proxycheck/internal/shared/types"
	"proxycheck/proxypool/manager"
	"proxycheck/proxypool/storage"
	"proxycheck/proxypool/validator"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// options 保存命令行参数的原始值，只有显式给出的才会覆盖配置。
type options struct {
	inputFile, outputFile, configPath, logLevel, testURL string
	timeout, maxConnections                              int
	showProgress                                         bool
}

func newFlagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("checker", flag.ContinueOnError)
	fs.StringVar(&opts.inputFile, "input-file", "", "Input proxies file (required)")
	fs.StringVar(&opts.inputFile, "i", "", "Shorthand for -input-file")
	fs.StringVar(&opts.outputFile, "output-file", config.DefaultOutputFile, "Output file")
	fs.StringVar(&opts.outputFile, "o", config.DefaultOutputFile, "Shorthand for -output-file")
	fs.IntVar(&opts.timeout, "timeout", config.DefaultTimeout, "Timeout in seconds")
	fs.IntVar(&opts.timeout, "t", config.DefaultTimeout, "Shorthand for -timeout")
	fs.IntVar(&opts.maxConnections, "max-connections", config.DefaultMaxConnections, "Max concurrent connections")
	fs.IntVar(&opts.maxConnections, "m", config.DefaultMaxConnections, "Shorthand for -max-connections")
	fs.StringVar(&opts.configPath, "config", "", "Optional ini config file")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.testURL, "test-url", config.DefaultTestURL, "URL fetched through each proxy")
	fs.BoolVar(&opts.showProgress, "progress", true, "Show a progress bar")
	return fs
}

// loadConfig 按 默认值 < ini < 环境变量 < 显式命令行参数 的顺序合成配置。
// fs 必须已经 Parse 过。
func loadConfig(fs *flag.FlagSet, opts *options) (*types.Config, error) {
	cfg := config.Default()

	// 1. 加载 .ini 配置（可选），再应用环境变量
	if opts.configPath != "" {
		if err := config.LoadIni(cfg, opts.configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file '%s': %w", opts.configPath, err)
		}
	} else {
		config.ApplyEnv(cfg)
	}

	// 2. 命令行中显式给出的参数优先级最高
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input-file", "i":
			cfg.InputFile = opts.inputFile
		case "output-file", "o":
			cfg.OutputFile = opts.outputFile
		case "timeout", "t":
			cfg.Timeout = opts.timeout
		case "max-connections", "m":
			cfg.MaxConnections = opts.maxConnections
		case "log-level":
			cfg.Level = opts.logLevel
		case "test-url":
			cfg.TestURL = opts.testURL
		}
	})
	return cfg, nil
}

func run(args []string, stdout io.Writer) int {
	opts := &options{}
	fs := newFlagSet(opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := loadConfig(fs, opts)
	if err != nil {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}

	if err := config.Validate(cfg); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration.")
		fs.Usage()
		return 1
	}
	logger.Debug().
		Str("input", cfg.InputFile).
		Str("output", cfg.OutputFile).
		Int("timeout_s", cfg.Timeout).
		Int("max_connections", cfg.MaxConnections).
		Str("test_url", cfg.TestURL).
		Msg("Effective configuration.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return check(ctx, cfg, opts.showProgress, stdout)
}

// check runs one pass and prints the outcome to stdout.
// Informational outcomes exit 0, configuration failures exit 1.
func check(ctx context.Context, cfg *types.Config, showProgress bool, stdout io.Writer) int {
	v := validator.NewValidator(time.Duration(cfg.Timeout)*time.Second, cfg.MaxConnections, cfg.TestURL)
	m := manager.NewManager(cfg, storage.NewFileStorage(cfg.InputFile, cfg.OutputFile), v)

	var bar *progressbar.ProgressBar
	m.OnLoaded = func(count int) {
		fmt.Fprintf(stdout, "Loaded %d proxies for checking\n", count)
		if showProgress {
			bar = progressbar.Default(int64(count), "Checking proxies")
			v.OnProgress = func(done, total int) {
				bar.Add(1)
			}
		}
	}

	report, err := m.Run(ctx)
	if bar != nil {
		bar.Finish()
	}

	switch {
	case errors.Is(err, manager.ErrNoValidProxies):
		fmt.Fprintln(stdout, "No valid proxies found in input file")
		return 0
	case errors.Is(err, manager.ErrNoWorkingProxies):
		fmt.Fprintln(stdout, "No working proxies found")
		return 0
	case err != nil:
		logger.Error().Err(err).Str("input", cfg.InputFile).Msg("Check failed.")
		return 1
	}

	logger.Info().Str("run_id", report.RunID).Dur("elapsed", report.Elapsed).Msg("Check finished.")
	fmt.Fprintf(stdout, "\nFound %d working proxies\n", report.Working)
	fmt.Fprintf(stdout, "Results saved to %s\n", report.OutputPath)
	return 0
}
