package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/kexdocs/internal/build"
	"git.home.luguber.info/inful/kexdocs/internal/config"
	"git.home.luguber.info/inful/kexdocs/internal/metrics"
)

// Global carries process-wide state into every command.
type Global struct {
	Ctx    context.Context
	Logger *slog.Logger
	Out    io.Writer // friendly user messages
}

func (g *Global) context() context.Context {
	if g == nil || g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) printf(format string, args ...any) {
	var out io.Writer = os.Stdout
	if g != nil && g.Out != nil {
		out = g.Out
	}
	_, _ = fmt.Fprintf(out, format+"\n", args...)
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"kexdocs.yaml" env:"KEXDOCS_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	DocsAPI DocsAPICmd `cmd:"" name:"docs-api" aliases:"docs_api" help:"Aggregate declarations, generate the API reference and copy static assets"`
	Copyf   CopyfCmd   `cmd:"" help:"Copy static assets into the output directory"`
	Concat  ConcatCmd  `cmd:"" help:"Concatenate declaration files into the combined header"`
	Verify  VerifyCmd  `cmd:"" help:"Check local links of an existing output tree"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild the documentation whenever an input changes"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// KEXDOCS_LOG_LEVEL overrides the level chosen by --verbose.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	if env := os.Getenv("KEXDOCS_LOG_LEVEL"); env != "" {
		level = parseLevel(env, level)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func parseLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

func loadConfig(root *CLI) (*config.Config, error) {
	path := config.DefaultConfigFile
	if root != nil && root.Config != "" {
		path = root.Config
	}
	return config.LoadOrDefault(path)
}

// newService wires the build service; a Prometheus recorder is only created
// when a textfile destination is configured.
func newService(cfg *config.Config) *build.Service {
	svc := build.NewService(cfg)
	if cfg.Metrics.Textfile != "" {
		svc.WithRecorder(metrics.NewPrometheusRecorder(nil))
	}
	return svc
}

// runBuild prints the friendly start/finish lines around one build.
func runBuild(g *Global, name string, fn func(context.Context) (*build.Report, error)) error {
	g.printf("Starting %s", name)
	report, err := fn(g.context())
	if err != nil {
		g.printf("%s failed", name)
		return err
	}
	if report.Outcome == build.OutcomeWarning {
		g.printf("%s completed with %d warning(s)", name, len(report.Warnings))
		return nil
	}
	g.printf("%s completed successfully", name)
	return nil
}
