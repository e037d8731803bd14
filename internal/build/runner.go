package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/kexdocs/internal/aggregate"
	"git.home.luguber.info/inful/kexdocs/internal/assets"
	"git.home.luguber.info/inful/kexdocs/internal/generator"
	"git.home.luguber.info/inful/kexdocs/internal/linkcheck"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
)

// StageOutcome normalized result of stage execution.
type StageOutcome struct {
	Stage     StageName
	Error     *StageError
	Result    StageResult
	IssueCode ReportIssueCode
	Severity  IssueSeverity
	Abort     bool
}

// RunStages executes stages in order, recording timing and stopping on the first
// fatal or canceled stage.
func RunStages(ctx context.Context, st *State, stages []StageDef) error {
	for _, def := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(def.Name, ctx.Err())
			st.Report.AddIssue(IssueCanceled, def.Name, SeverityError, se.Error(), se)
			st.Report.RecordStageResult(def.Name, StageResultCanceled, st.Recorder)
			return se
		default:
		}

		slog.Debug("Stage starting", logfields.Stage(string(def.Name)))
		t0 := time.Now()
		err := def.Fn(ctx, st)
		dur := time.Since(t0)

		st.Report.StageDurations[def.Name] = dur
		if st.Recorder != nil {
			st.Recorder.ObserveStageDuration(string(def.Name), dur)
		}

		out := ClassifyStageResult(ctx, def.Name, err)
		if out.Error != nil {
			st.Report.AddIssue(out.IssueCode, out.Stage, out.Severity, out.Error.Error(), out.Error)
			if out.Severity == SeverityWarning {
				slog.Warn("Stage completed with warnings", logfields.Stage(string(def.Name)), logfields.Error(out.Error.Err))
			}
		}
		st.Report.RecordStageResult(def.Name, out.Result, st.Recorder)
		slog.Debug("Stage finished",
			logfields.Stage(string(def.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000),
			slog.String("result", string(out.Result)))

		if out.Abort {
			if out.Error != nil {
				return out.Error
			}
			return fmt.Errorf("stage %s aborted", def.Name)
		}
	}
	return nil
}

// ClassifyStageResult converts a raw error from a stage into a StageOutcome.
// Errors that are not StageErrors are fatal, unless the context was canceled.
func ClassifyStageResult(ctx context.Context, stage StageName, err error) StageOutcome {
	if err == nil {
		return StageOutcome{Stage: stage, Result: StageResultSuccess}
	}

	var se *StageError
	if !errors.As(err, &se) {
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			se = NewCanceledStageError(stage, err)
		} else {
			se = NewFatalStageError(stage, err)
		}
	}

	switch se.Kind {
	case StageErrorCanceled:
		return StageOutcome{Stage: stage, Error: se, Result: StageResultCanceled, IssueCode: IssueCanceled, Severity: SeverityError, Abort: true}
	case StageErrorWarning:
		return StageOutcome{Stage: stage, Error: se, Result: StageResultWarning, IssueCode: classifyIssueCode(se), Severity: SeverityWarning}
	default:
		return StageOutcome{Stage: stage, Error: se, Result: StageResultFatal, IssueCode: classifyIssueCode(se), Severity: SeverityError, Abort: true}
	}
}

// classifyIssueCode determines the issue code from the stage sentinel errors.
func classifyIssueCode(se *StageError) ReportIssueCode {
	switch {
	case errors.Is(se.Err, aggregate.ErrNoDeclarations):
		return IssueNoDeclarations
	case errors.Is(se.Err, generator.ErrGeneratorNotFound):
		return IssueGeneratorMissing
	case errors.Is(se.Err, generator.ErrGeneratorFailed):
		return IssueGeneratorFailed
	case errors.Is(se.Err, assets.ErrAssetMissing):
		return IssueAssetMissing
	case errors.Is(se.Err, linkcheck.ErrBrokenLinks):
		return IssueBrokenLinks
	default:
		return IssueGenericStageError
	}
}
