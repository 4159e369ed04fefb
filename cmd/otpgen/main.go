// Command otpgen prints one-time passwords for a JSON generator
// configuration.
//
// Usage:
//
//	otpgen [-config FILE] [-counter N] [-verbose] [timestamp ...]
//
// Each timestamp is Unix seconds; with none given the current time is used.
// With -counter the code for that HOTP counter is printed instead, in which
// case timestamps are not accepted. Settings come from the environment
// (OTPGEN_APP_ENV, OTPGEN_APP_CONFIG_PATH, OTPGEN_APP_VERBOSE) or a .env
// file, with flags taking precedence.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jhahn/go-otp/internal/infra/config"
	"github.com/jhahn/go-otp/internal/infra/logger"
	"github.com/jhahn/go-otp/pkg/hotp"
	"github.com/jhahn/go-otp/pkg/totp"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "otpgen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	settings, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("otpgen", flag.ContinueOnError)
	configPath := fs.String("config", settings.App.ConfigPath, "path to the JSON generator configuration")
	verbose := fs.Bool("verbose", settings.App.Verbose, "trace each step of the computation")
	counter := fs.Uint64("counter", 0, "print the code for this HOTP counter instead of a time")
	if err := fs.Parse(args); err != nil {
		return err
	}

	counterSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "counter" {
			counterSet = true
		}
	})

	log, err := logger.New(settings.App.Env, *verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	data, err := os.ReadFile(*configPath)
	if err != nil {
		return fmt.Errorf("read configuration: %w", err)
	}
	cfg, err := totp.ParseConfig(data)
	if err != nil {
		return err
	}
	log.Debug("configuration loaded",
		zap.String("path", *configPath),
		zap.String("secret", logger.MaskSecret(cfg.Secret)),
		zap.Uint("digits", cfg.Digits),
		zap.String("algorithm", string(cfg.Algorithm)))

	if counterSet {
		if fs.NArg() > 0 {
			return errors.New("timestamps cannot be combined with -counter")
		}
		return runHOTP(cfg, *counter, *verbose, log, stdout)
	}

	var opts []totp.Option
	if *verbose {
		opts = append(opts, totp.WithTrace(logger.TraceSink(log)))
	}
	gen, err := totp.New(cfg, opts...)
	if err != nil {
		return err
	}

	times, err := parseTimestamps(fs.Args())
	if err != nil {
		return err
	}

	// Compute every code before printing anything, so a bad timestamp does
	// not leave partial output behind.
	codes := make([]string, len(times))
	var eg errgroup.Group
	for i, ts := range times {
		i, ts := i, ts // per-iteration copies; this module builds with Go < 1.22 loop semantics
		eg.Go(func() error {
			code, err := gen.GenerateAt(ts)
			if err != nil {
				return fmt.Errorf("timestamp %d: %w", ts.Unix(), err)
			}
			codes[i] = code
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, code := range codes {
		fmt.Fprintln(stdout, code)
	}
	return nil
}

func runHOTP(cfg totp.Config, counter uint64, verbose bool, log *zap.Logger, stdout io.Writer) error {
	key, err := cfg.Key()
	if err != nil {
		return err
	}

	var opts []hotp.Option
	if verbose {
		opts = append(opts, hotp.WithTrace(logger.TraceSink(log)))
	}
	gen, err := hotp.New(hotp.Config{
		Secret:    key,
		Digits:    cfg.Digits,
		Algorithm: cfg.Algorithm,
	}, opts...)
	if err != nil {
		return err
	}

	code, err := gen.Generate(counter)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, code)
	return nil
}

func parseTimestamps(args []string) ([]time.Time, error) {
	if len(args) == 0 {
		return []time.Time{time.Now()}, nil
	}

	times := make([]time.Time, 0, len(args))
	for _, arg := range args {
		unix, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: expected Unix seconds", arg)
		}
		times = append(times, time.Unix(unix, 0).UTC())
	}
	return times, nil
}
