package build

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/kexdocs/internal/generator"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
)

func stageGenerate(ctx context.Context, st *State) error {
	if st.Aggregate == nil {
		return NewFatalStageError(StageGenerate,
			errors.InternalError("generate requires the aggregate stage").Build())
	}
	cfg := st.Config
	if bg, ok := st.Generator.(*generator.BinaryGenerator); ok {
		st.GeneratorVersion = generator.DetectVersion(ctx, bg.Command)
	}

	inv := generator.Invocation{
		Input:   st.Aggregate.Output,
		OutDir:  cfg.Path(cfg.Generator.Out),
		Title:   cfg.Generator.Title,
		Readme:  cfg.Path(cfg.Generator.Readme),
		WorkDir: cfg.ProjectDir,
	}
	if err := st.Generator.Execute(ctx, inv); err != nil {
		return stageFailure(ctx, StageGenerate, err)
	}
	slog.Info("API reference generated",
		logfields.Path(inv.OutDir),
		slog.String("generator_version", st.GeneratorVersion))
	return nil
}
