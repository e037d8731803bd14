package build

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/kexdocs/internal/git"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
	"git.home.luguber.info/inful/kexdocs/internal/manifest"
)

// stageWriteManifest records the build into the state directory. It never writes
// into the output root so the output tree stays identical across unchanged runs.
func stageWriteManifest(ctx context.Context, st *State) error {
	cfg := st.Config
	m := manifest.New(st.ToolVersion)
	m.ID = st.Report.BuildID
	m.Generator = manifest.GeneratorInfo{
		Enabled: cfg.Generator.IsEnabled(),
		Version: st.GeneratorVersion,
	}
	if m.Generator.Enabled {
		m.Generator.Command = cfg.Generator.Command
	}

	rev, err := git.HeadRevision(cfg.ProjectDir)
	if err != nil {
		slog.Warn("Unable to read source revision", logfields.Path(cfg.ProjectDir), logfields.Error(err))
	}
	m.Revision = rev

	m.Inputs.ConfigHash = cfg.Snapshot()
	if st.Aggregate != nil {
		m.Inputs.CombinedSHA256 = st.Aggregate.SHA256
		m.Inputs.Declarations = make([]manifest.InputFile, 0, len(st.Aggregate.Inputs))
		for _, in := range st.Aggregate.Inputs {
			m.Inputs.Declarations = append(m.Inputs.Declarations, manifest.InputFile(in))
		}
	}
	if err := ctx.Err(); err != nil {
		return NewCanceledStageError(StageWriteManifest, err)
	}
	if err := m.RecordOutputs(cfg.OutputRoot()); err != nil {
		return NewFatalStageError(StageWriteManifest,
			errors.WrapError(err, errors.CategoryFileSystem, "failed to hash output tree").Build())
	}

	// Status reflects the stages before this one.
	snapshot := *st.Report
	snapshot.DeriveOutcome()
	m.Status = string(snapshot.Outcome)
	m.Duration = time.Since(st.Report.Start).Milliseconds()

	path := filepath.Join(cfg.Path(cfg.State.Directory), manifest.FileName)
	if err := m.Write(path); err != nil {
		return NewFatalStageError(StageWriteManifest,
			errors.WrapError(err, errors.CategoryFileSystem, "failed to write build manifest").
				WithContext("path", path).Build())
	}
	st.Manifest = m
	slog.Info("Build manifest written", logfields.Path(path), logfields.BuildID(m.ID), logfields.Files(len(m.Outputs.Files)))
	return nil
}
