package build

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/kexdocs/internal/assets"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
)

func stageCopyAssets(ctx context.Context, st *State) error {
	cfg := st.Config
	res, err := assets.New(cfg.ProjectDir, cfg.OutputRoot()).Copy(ctx, cfg.Assets)
	if err != nil {
		return stageFailure(ctx, StageCopyAssets, err)
	}
	st.Assets = res
	st.Report.AssetFiles = len(res.Files)
	st.Report.AssetsChanged = res.Changed
	st.Recorder.AddFilesProcessed(string(StageCopyAssets), res.Changed)

	slog.Info("Static assets copied",
		logfields.Path(cfg.OutputRoot()),
		logfields.Files(len(res.Files)),
		slog.Int("changed", res.Changed),
		slog.Int("skipped_rules", len(res.Skipped)))
	return nil
}
