package build

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/kexdocs/internal/linkcheck"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
)

// stageVerifyLinks reports broken local links as a warning unless
// verify.fail_on_broken is set.
func stageVerifyLinks(ctx context.Context, st *State) error {
	cfg := st.Config
	checker := &linkcheck.Checker{Root: cfg.OutputRoot(), Ignore: cfg.Verify.Ignore}
	rep, err := checker.Check(ctx)
	if err != nil {
		return stageFailure(ctx, StageVerifyLinks, err)
	}
	st.Links = rep
	st.Report.LinksChecked = rep.Checked
	st.Report.BrokenLinks = len(rep.Broken)
	st.Recorder.IncBrokenLinks(len(rep.Broken))

	for _, b := range rep.Broken {
		slog.Warn("Broken link", logfields.Path(b.Source), slog.String("target", b.Target), slog.String("kind", string(b.Kind)))
	}
	slog.Info("Links verified", slog.Int("pages", rep.Pages), slog.Int("checked", rep.Checked), slog.Int("broken", len(rep.Broken)))

	if err := rep.Err(); err != nil {
		if cfg.Verify.FailOnBroken {
			return NewFatalStageError(StageVerifyLinks, err)
		}
		return NewWarnStageError(StageVerifyLinks, err)
	}
	return nil
}
