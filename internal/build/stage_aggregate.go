package build

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/kexdocs/internal/aggregate"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
)

func stageAggregate(ctx context.Context, st *State) error {
	d := st.Config.Declarations
	res, err := aggregate.Aggregate(ctx, aggregate.Options{
		Root:       st.Config.ProjectDir,
		Pattern:    d.Pattern,
		Output:     d.Output,
		Banner:     d.Banner,
		Separator:  d.JoinSeparator(),
		AllowEmpty: d.AllowEmpty,
	})
	if err != nil {
		return stageFailure(ctx, StageAggregate, err)
	}
	st.Aggregate = res
	st.Report.DeclarationFiles = len(res.Inputs)
	st.Report.CombinedBytes = res.Bytes
	st.Recorder.AddFilesProcessed(string(StageAggregate), len(res.Inputs))
	st.Recorder.SetCombinedBytes(res.Bytes)

	slog.Info("Declarations aggregated",
		logfields.Path(res.Output),
		logfields.Files(len(res.Inputs)),
		logfields.Bytes(res.Bytes),
		slog.Bool("unchanged", res.Unchanged))
	return nil
}

// stageFailure wraps err as a canceled stage error when ctx is done, fatal otherwise.
func stageFailure(ctx context.Context, stage StageName, err error) error {
	if ctx.Err() != nil {
		return NewCanceledStageError(stage, err)
	}
	return NewFatalStageError(stage, err)
}
