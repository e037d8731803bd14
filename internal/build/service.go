package build

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/kexdocs/internal/config"
	"git.home.luguber.info/inful/kexdocs/internal/generator"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
	"git.home.luguber.info/inful/kexdocs/internal/metrics"
	"git.home.luguber.info/inful/kexdocs/internal/version"
)

// Command names used in reports, logs and metrics.
const (
	CommandDocsAPI = "docs-api"
	CommandCopy    = "copyf"
	CommandConcat  = "concat"
	CommandVerify  = "verify"
)

// textfileWriter is implemented by recorders that can export to a file.
type textfileWriter interface {
	WriteTextfile(path string) error
}

// Service is the single entry point for running builds. The CLI and watch mode
// both route through it.
type Service struct {
	cfg       *config.Config
	recorder  metrics.Recorder
	generator generator.Generator
}

// NewService creates a Service for cfg. The generator is the configured binary,
// or a NoopGenerator when generation is disabled.
func NewService(cfg *config.Config) *Service {
	var gen generator.Generator = generator.NoopGenerator{}
	if cfg.Generator.IsEnabled() {
		gen = &generator.BinaryGenerator{Command: cfg.Generator.Command, Args: cfg.Generator.Args}
	}
	return &Service{cfg: cfg, recorder: metrics.NoopRecorder{}, generator: gen}
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithGenerator replaces the documentation generator (tests inject fakes here).
func (s *Service) WithGenerator(g generator.Generator) *Service {
	if g != nil {
		s.generator = g
	}
	return s
}

// Config returns the configuration the service builds with.
func (s *Service) Config() *config.Config { return s.cfg }

// DocsAPIPipeline lists the stages of a full documentation build.
func (s *Service) DocsAPIPipeline() *Pipeline {
	return NewPipeline().
		Add(StageAggregate, stageAggregate).
		Add(StageGenerate, stageGenerate).
		Add(StageCopyAssets, stageCopyAssets).
		AddIf(s.cfg.Verify.IsEnabled(), StageVerifyLinks, stageVerifyLinks).
		AddIf(s.cfg.State.ManifestEnabled(), StageWriteManifest, stageWriteManifest)
}

// DocsAPI runs aggregate, generate and copy_assets, followed by the enabled
// verification and manifest stages.
func (s *Service) DocsAPI(ctx context.Context) (*Report, error) {
	return s.run(ctx, CommandDocsAPI, s.DocsAPIPipeline())
}

// CopyOnly runs the static asset copy.
func (s *Service) CopyOnly(ctx context.Context) (*Report, error) {
	return s.run(ctx, CommandCopy, NewPipeline().Add(StageCopyAssets, stageCopyAssets))
}

// ConcatOnly runs the declaration aggregation.
func (s *Service) ConcatOnly(ctx context.Context) (*Report, error) {
	return s.run(ctx, CommandConcat, NewPipeline().Add(StageAggregate, stageAggregate))
}

// VerifyOnly checks links of an existing output tree, regardless of verify.enabled.
func (s *Service) VerifyOnly(ctx context.Context) (*Report, error) {
	return s.run(ctx, CommandVerify, NewPipeline().Add(StageVerifyLinks, stageVerifyLinks))
}

func (s *Service) run(ctx context.Context, command string, p *Pipeline) (*Report, error) {
	report := NewReport(uuid.NewString(), command)
	st := &State{
		Config:      s.cfg,
		Generator:   s.generator,
		Recorder:    s.recorder,
		Report:      report,
		ToolVersion: version.Version,
	}

	log := slog.With(logfields.BuildID(report.BuildID), logfields.Command(command))
	log.Debug("Build starting", slog.Any("stages", p.Names()))

	err := RunStages(ctx, st, p.Build())

	report.Finish()
	report.DeriveOutcome()
	s.recorder.ObserveBuildDuration(report.Duration())
	s.recorder.IncBuildOutcome(string(report.Outcome))

	stateDir := s.cfg.Path(s.cfg.State.Directory)
	if perr := report.Persist(stateDir); perr != nil {
		log.Warn("Failed to persist build report", logfields.Path(stateDir), logfields.Error(perr))
	}
	if path := s.cfg.Metrics.Textfile; path != "" {
		if tw, ok := s.recorder.(textfileWriter); ok {
			if werr := tw.WriteTextfile(s.cfg.Path(path)); werr != nil {
				log.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(werr))
			}
		}
	}

	attrs := []any{
		logfields.Outcome(string(report.Outcome)),
		logfields.DurationMS(float64(report.Duration().Microseconds()) / 1000),
	}
	if err != nil {
		log.Error("Build failed", append(attrs, logfields.Error(err))...)
		return report, err
	}
	log.Info("Build finished", append(attrs, slog.String("summary", report.Summary()))...)
	return report, nil
}
