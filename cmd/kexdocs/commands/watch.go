package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/kexdocs/internal/build"
	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
	"git.home.luguber.info/inful/kexdocs/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before a rebuild (overrides watch.debounce)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	debounce := cfg.Watch.Debounce
	if w.Debounce > 0 {
		debounce = w.Debounce
	}

	// The configuration is reloaded before every rebuild so edits to it apply,
	// including moved inputs and outputs.
	var watcher *watch.Watcher
	rebuild := func(ctx context.Context) error {
		current, err := loadConfig(root)
		if err != nil {
			slog.Warn("Configuration invalid; keeping previous settings", logfields.Error(err))
			current = cfg
		} else {
			cfg = current
			watcher.Update(watch.Roots(current, root.Config), watch.NewFilter(current))
		}
		report, err := newService(current).DocsAPI(ctx)
		if err == nil {
			g.printf("Rebuilt %s (%s)", build.CommandDocsAPI, report.Outcome)
		}
		return err
	}

	g.printf("Watching %s for changes (Ctrl+C to stop)", cfg.ProjectDir)
	watcher = watch.New(watch.Roots(cfg, root.Config), watch.NewFilter(cfg), debounce, rebuild)
	if err := watcher.Run(g.context()); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "file watcher failed").Build()
	}
	g.printf("Watch stopped")
	return nil
}
