package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kexdocs/internal/aggregate"
	"git.home.luguber.info/inful/kexdocs/internal/generator"
	"git.home.luguber.info/inful/kexdocs/internal/manifest"
	"git.home.luguber.info/inful/kexdocs/internal/metrics"
	"git.home.luguber.info/inful/kexdocs/internal/testutil"
)

// fakeTypeDoc writes a small deterministic API reference.
type fakeTypeDoc struct {
	calls []generator.Invocation
	err   error
}

func (f *fakeTypeDoc) Execute(_ context.Context, inv generator.Invocation) error {
	f.calls = append(f.calls, inv)
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(inv.OutDir, 0o755); err != nil {
		return err
	}
	index := fmt.Sprintf(`<html><head><title>%s</title></head><body><a href="modules.html">Modules</a></body></html>`, inv.Title)
	if err := os.WriteFile(filepath.Join(inv.OutDir, "index.html"), []byte(index), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(inv.OutDir, "modules.html"), []byte(`<a href="index.html">Home</a>`), 0o644)
}

func TestDocsAPI_FullPipeline(t *testing.T) {
	p := testutil.NewKEXProject(t)
	gen := &fakeTypeDoc{}
	svc := NewService(p.Config()).WithGenerator(gen)

	report, err := svc.DocsAPI(t.Context())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, []StageName{StageAggregate, StageGenerate, StageCopyAssets, StageVerifyLinks, StageWriteManifest}, report.Stages)
	assert.Equal(t, 2, report.DeclarationFiles)
	assert.Zero(t, report.BrokenLinks)

	require.Len(t, gen.calls, 1)
	inv := gen.calls[0]
	assert.Equal(t, p.Path("headers/kernel-extension.d.ts"), inv.Input)
	assert.Equal(t, p.Path("out/api"), inv.OutDir)
	assert.Equal(t, "Kernel Extension", inv.Title)
	assert.Equal(t, p.Path("README.md"), inv.Readme)

	p.Files().
		AssertFileContains("headers/kernel-extension.d.ts", `/// <reference path="./core-engine.d.ts" />`).
		AssertFileExists("out/headers/kernel-extension.d.ts").
		AssertFileExists("out/api/index.html").
		AssertFileExists("out/index.html").
		AssertFileExists("out/vendor/docsify.js").
		AssertFileExists("out/_sidebar.md").
		AssertSameFile("out/README.md", p.Path("README.md")).
		AssertSameFile("out/images/logo.png", p.Path("images/logo.png")).
		AssertFileExists(".kexdocs/" + manifest.FileName).
		AssertFileExists(".kexdocs/" + ReportFileName).
		AssertFileNotExists("out/" + manifest.FileName)

	m, err := manifest.Read(p.Path(".kexdocs/" + manifest.FileName))
	require.NoError(t, err)
	assert.Equal(t, report.BuildID, m.ID)
	assert.Len(t, m.Inputs.Declarations, 2)
	assert.Equal(t, "declarations/Block.d.ts", m.Inputs.Declarations[0].Path)
	assert.Contains(t, m.Outputs.Files, "api/index.html")
	assert.Equal(t, "success", m.Status)
	assert.True(t, m.Revision.IsZero(), "temp project is not a git repository")
}

func TestDocsAPI_RerunLeavesOutputUnchanged(t *testing.T) {
	p := testutil.NewKEXProject(t)
	svc := NewService(p.Config()).WithGenerator(&fakeTypeDoc{})

	_, err := svc.DocsAPI(t.Context())
	require.NoError(t, err)
	first := p.Files().Snapshot("out")
	combined := p.Files().Snapshot("headers")

	report, err := svc.DocsAPI(t.Context())
	require.NoError(t, err)
	assert.Equal(t, first, p.Files().Snapshot("out"))
	assert.Equal(t, combined, p.Files().Snapshot("headers"))
	assert.Zero(t, report.AssetsChanged)
}

func TestDocsAPI_GeneratorFailureAborts(t *testing.T) {
	p := testutil.NewKEXProject(t)
	gen := &fakeTypeDoc{err: fmt.Errorf("%w: exit status 2", generator.ErrGeneratorFailed)}
	report, err := NewService(p.Config()).WithGenerator(gen).DocsAPI(t.Context())
	require.Error(t, err)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageGenerate, se.Stage)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.ErrorIs(t, err, generator.ErrGeneratorFailed)

	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Equal(t, []StageName{StageAggregate, StageGenerate}, report.Stages)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueGeneratorFailed, report.Issues[0].Code)
	p.Files().AssertFileNotExists("out/README.md")
}

func TestConcatOnly_NoDeclarations(t *testing.T) {
	p := testutil.NewProject(t)
	report, err := NewService(p.Config()).ConcatOnly(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregate.ErrNoDeclarations)
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Equal(t, IssueNoDeclarations, report.Issues[0].Code)
}

func TestCopyOnly_DoesNotAggregate(t *testing.T) {
	p := testutil.NewKEXProject(t)
	p.WriteFile("headers/core-engine.d.ts", "declare const x: number;\n")
	report, err := NewService(p.Config()).CopyOnly(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []StageName{StageCopyAssets}, report.Stages)
	p.Files().
		AssertFileExists("out/headers/core-engine.d.ts").
		AssertFileNotExists("headers/kernel-extension.d.ts")
}

func TestDocsAPI_BrokenLinks(t *testing.T) {
	t.Run("warning by default", func(t *testing.T) {
		p := testutil.NewKEXProject(t)
		p.WriteFile("README.md", "[missing](nowhere.md)\n")
		report, err := NewService(p.Config()).WithGenerator(&fakeTypeDoc{}).DocsAPI(t.Context())
		require.NoError(t, err)
		assert.Equal(t, OutcomeWarning, report.Outcome)
		assert.Equal(t, 1, report.BrokenLinks)
		assert.Equal(t, StageResultWarning, report.StageResults[StageVerifyLinks])
		assert.Contains(t, report.Stages, StageWriteManifest)
	})

	t.Run("fatal when configured", func(t *testing.T) {
		p := testutil.NewKEXProject(t)
		p.WriteFile("README.md", "[missing](nowhere.md)\n")
		cfg := p.Config()
		cfg.Verify.FailOnBroken = true
		report, err := NewService(cfg).WithGenerator(&fakeTypeDoc{}).DocsAPI(t.Context())
		require.Error(t, err)
		assert.Equal(t, OutcomeFailed, report.Outcome)
		assert.NotContains(t, report.Stages, StageWriteManifest)
	})
}

func TestDocsAPI_Canceled(t *testing.T) {
	p := testutil.NewKEXProject(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	report, err := NewService(p.Config()).WithGenerator(&fakeTypeDoc{}).DocsAPI(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeCanceled, report.Outcome)
	assert.Equal(t, StageResultCanceled, report.StageResults[StageAggregate])
}

func TestDocsAPI_DisabledStages(t *testing.T) {
	p := testutil.NewKEXProject(t)
	cfg := p.Config()
	off := false
	cfg.Verify.Enabled = &off
	cfg.State.Manifest = &off
	cfg.Generator.Enabled = &off

	report, err := NewService(cfg).DocsAPI(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []StageName{StageAggregate, StageGenerate, StageCopyAssets}, report.Stages)
	p.Files().
		AssertFileNotExists(".kexdocs/" + manifest.FileName).
		AssertFileNotExists("out/api/index.html")
}

func TestDocsAPI_RecordsRevision(t *testing.T) {
	p := testutil.NewKEXProject(t)
	commit := testutil.CommitAll(t, p.Dir, "initial docs")

	_, err := NewService(p.Config()).WithGenerator(&fakeTypeDoc{}).DocsAPI(t.Context())
	require.NoError(t, err)

	m, err := manifest.Read(p.Path(".kexdocs/" + manifest.FileName))
	require.NoError(t, err)
	assert.Equal(t, commit, m.Revision.Commit)
}

func TestDocsAPI_MetricsTextfile(t *testing.T) {
	p := testutil.NewKEXProject(t)
	cfg := p.Config()
	cfg.Metrics.Textfile = "metrics/kexdocs.prom"

	rec := metrics.NewPrometheusRecorder(nil)
	_, err := NewService(cfg).WithGenerator(&fakeTypeDoc{}).WithRecorder(rec).DocsAPI(t.Context())
	require.NoError(t, err)

	p.Files().
		AssertFileContains("metrics/kexdocs.prom", `kexdocs_build_outcomes_total{outcome="success"} 1`).
		AssertFileContains("metrics/kexdocs.prom", `kexdocs_stage_results_total{result="success",stage="aggregate"} 1`)
}

func TestVerifyOnly_MissingOutput(t *testing.T) {
	p := testutil.NewProject(t)
	report, err := NewService(p.Config()).VerifyOnly(t.Context())
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.False(t, errors.Is(err, context.Canceled))
}
