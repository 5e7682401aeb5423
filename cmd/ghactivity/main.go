package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simplesurance/ghactivity/internal/cfg"
	"github.com/simplesurance/ghactivity/internal/githubclt"
	"github.com/simplesurance/ghactivity/internal/logfields"
)

const appName = "ghactivity"

const tokenEnvVar = "GITHUB_TOKEN"

var logger *zap.Logger

// Version is set via a ldflag on compilation
var Version = "unknown"

func exitOnErr(msg string, err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "ERROR:", msg+", error:", err.Error())
	os.Exit(1)
}

func panicHandler() {
	if r := recover(); r != nil {
		logger.Info(
			"panic caught , terminating gracefully",
			zap.String("panic", fmt.Sprintf("%v", r)),
			zap.StackSkip("stacktrace", 1),
		)

		ctx, cancelFn := context.WithTimeout(context.Background(), time.Minute)
		defer cancelFn()

		goodbye.Exit(ctx, 1)
	}
}

type arguments struct {
	Verbose     *bool
	ConfigFile  *string
	ShowVersion *bool
	BaseURL     *string
	Token       *string
	PerPage     *int
	MaxPages    *int
	Filter      *string
	State       *string
	StaleDays   *int
	Output      *string
	Comments    *bool
}

var args arguments

func mustParseCommandlineParams() {
	args = arguments{
		Verbose: pflag.BoolP(
			"verbose",
			"v",
			false,
			"enable verbose logging",
		),
		ConfigFile: pflag.StringP(
			"cfg-file",
			"c",
			"",
			"path to an optional ghactivity configuration file",
		),
		ShowVersion: pflag.Bool(
			"version",
			false,
			"print the version and exit",
		),
		BaseURL: pflag.String(
			"base-url",
			"",
			"GitHub API endpoint, e.g. https://ghes.example.com/api/v3/ (default: "+githubclt.DefaultBaseURL+")",
		),
		Token: pflag.String(
			"token",
			"",
			"GitHub API token, can also be set via the "+tokenEnvVar+" environment variable",
		),
		PerPage: pflag.Int(
			"per-page",
			0,
			"number of items per page, max 100 (default: server default)",
		),
		MaxPages: pflag.Int(
			"max-pages",
			-1,
			"maximum number of pages to retrieve, 0 means unlimited (default: configuration value, without configuration file 1, for stale unlimited)",
		),
		Filter: pflag.String(
			"filter",
			"",
			"jq expression that must evaluate to true for a record to be printed, @<name> references a filter from the configuration file",
		),
		State: pflag.String(
			"state",
			"open",
			"state of issues and pull requests to list: open, closed or all",
		),
		StaleDays: pflag.Int(
			"stale-days",
			14,
			"pull requests without update for more days are stale",
		),
		Output: pflag.StringP(
			"output",
			"o",
			outputJSON,
			"output format: "+outputJSON+" or "+outputMarkdown,
		),
		Comments: pflag.Bool(
			"comments",
			false,
			"include comment bodies in markdown activity digests",
		),
	}

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]... COMMAND [ARG]...\nRetrieve issues, pull requests and activity events from GitHub.\n", appName)
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		for _, c := range commands {
			fmt.Fprintf(os.Stderr, "  %-36s %s\n", c.name+" "+strings.Join(c.args, " "), c.help)
		}
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()
}

func mustParseCfg() *cfg.Config {
	// we use exitOnErr in this function instead of logger.Fatal() because
	// the logger is not initialized yet

	if *args.ConfigFile == "" {
		return &cfg.Config{}
	}

	file, err := os.Open(*args.ConfigFile)
	exitOnErr("could not open configuration files", err)
	defer file.Close()

	config, err := cfg.Load(file)
	if err != nil {
		exitOnErr(fmt.Sprintf("could not load configuration file: %s", *args.ConfigFile), err)
	}

	return config
}

// applyDefaults sets unset configuration values, command line parameters
// take precedence over the configuration file.
func applyDefaults(config *cfg.Config) {
	if *args.BaseURL != "" {
		config.GithubAPIURL = *args.BaseURL
	}

	if *args.Token != "" {
		config.GithubAPIToken = *args.Token
	} else if tok := os.Getenv(tokenEnvVar); tok != "" {
		config.GithubAPIToken = tok
	}

	if *args.PerPage != 0 {
		config.PerPage = *args.PerPage
	}

	if *args.MaxPages >= 0 {
		config.MaxPages = *args.MaxPages
	}

	if config.LogFormat == "" {
		config.LogFormat = "logfmt"
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

func initLogFmtLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zapEncoderConfig(config)

	logger := zap.New(zapcore.NewCore(
		zaplogfmt.NewEncoder(cfg),
		os.Stderr,
		logLevel),
	)

	return logger
}

func zapEncoderConfig(config *cfg.Config) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()

	cfg.LevelKey = "loglevel"
	cfg.TimeKey = config.LogTimeKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	return cfg
}

func mustInitZapFormatLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.EncoderConfig = zapEncoderConfig(config)
	// stdout is reserved for the command output
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = config.LogFormat
	cfg.Level = zap.NewAtomicLevelAt(logLevel)

	logger, err := cfg.Build()
	exitOnErr("could not initialize logger", err)

	return logger
}

func mustInitLogger(config *cfg.Config) {
	var logLevel zapcore.Level
	if *args.Verbose {
		logLevel = zapcore.DebugLevel
	} else {
		if err := (&logLevel).Set(config.LogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "can not set log level to %q: %s \n", config.LogLevel, err)
			os.Exit(2)
		}
	}

	switch config.LogFormat {
	case "logfmt":
		logger = initLogFmtLogger(config, logLevel)
	case "console", "json":
		logger = mustInitZapFormatLogger(config, logLevel)
	default:
		fmt.Fprintf(os.Stderr, "unsupported log-format argument: %q\n", config.LogFormat)
		os.Exit(2)
	}

	logger = logger.Named("main")
	zap.ReplaceGlobals(logger)

	goodbye.Register(func(context.Context, os.Signal) {
		if err := logger.Sync(); err != nil && !isSyncOnTerminalErr(err) {
			fmt.Fprintf(os.Stderr, "flushing logs failed: %s\n", err)
		}
	})
}

// isSyncOnTerminalErr returns true for the error that is returned when
// fsync is called on a terminal.
func isSyncOnTerminalErr(err error) bool {
	return strings.Contains(err.Error(), "inappropriate ioctl for device") ||
		strings.Contains(err.Error(), "invalid argument")
}

func hide(in string) string {
	if in == "" {
		return in
	}

	return "**hidden**"
}

func mustNewGithubClient(config *cfg.Config) *githubclt.Client {
	opts := []githubclt.Option{
		githubclt.WithToken(config.GithubAPIToken),
		githubclt.WithLogger(zap.L()),
	}

	if config.GithubAPIURL != "" {
		opts = append(opts, githubclt.WithBaseURL(config.GithubAPIURL))
	}

	if config.GithubAccept != "" {
		opts = append(opts, githubclt.WithAccept(config.GithubAccept))
	}

	clt, err := githubclt.New(opts...)
	exitOnErr("could not create github client", err)

	return clt
}

func main() {
	defer panicHandler()

	defer goodbye.Exit(context.Background(), 1)
	goodbye.Notify(context.Background())

	mustParseCommandlineParams()

	if *args.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		os.Exit(0) // nolint:gocritic // defer functions won't run
	}

	if *args.Output != outputJSON && *args.Output != outputMarkdown {
		fmt.Fprintf(os.Stderr, "unsupported output format: %q\n", *args.Output)
		os.Exit(2)
	}

	config := mustParseCfg()
	applyDefaults(config)

	mustInitLogger(config)

	cmd, cmdArgs, err := findCommand(pflag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		pflag.Usage()
		goodbye.Exit(context.Background(), 2)
	}

	clt := mustNewGithubClient(config)
	maxPages := resolveMaxPages(cmd, config, *args.MaxPages >= 0 || *args.ConfigFile != "")

	logger.Debug(
		"loaded cfg",
		logfields.Event("cfg_loaded"),
		zap.String("cfg_file", *args.ConfigFile),
		zap.String("github_api_url", clt.BaseURL()),
		zap.String("github_api_token", hide(config.GithubAPIToken)),
		zap.Int("per_page", config.PerPage),
		zap.Int("max_pages", maxPages),
		zap.String("log_format", config.LogFormat),
		zap.String("log_time_key", config.LogTimeKey),
		zap.String("log_level", config.LogLevel),
		zap.String("command", cmd.name),
	)

	ctx, cancelFn := context.WithCancel(context.Background())
	goodbye.Register(func(_ context.Context, sig os.Signal) {
		if sig != nil {
			logger.Info(fmt.Sprintf("terminating, received signal %s", sig.String()))
		}
		cancelFn()
	})

	env := &cmdEnv{
		clt:      clt,
		config:   config,
		out:      os.Stdout,
		maxPages: maxPages,
	}

	err = cmd.run(ctx, env, cmdArgs)
	if err != nil {
		logger.Error(
			"command failed",
			logfields.Event("command_failed"),
			zap.String("command", cmd.name),
			zap.Error(err),
		)
		goodbye.Exit(context.Background(), 1)
	}

	goodbye.Exit(context.Background(), 0)
}
