package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/kexdocs/internal/fsutil"
	"git.home.luguber.info/inful/kexdocs/internal/metrics"
)

// ReportFileName is the build report file name inside the state directory.
const ReportFileName = "build-report.json"

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// ReportIssueCode enumerates machine-parseable issue identifiers.
type ReportIssueCode string

const (
	IssueNoDeclarations    ReportIssueCode = "NO_DECLARATIONS"
	IssueGeneratorMissing  ReportIssueCode = "GENERATOR_NOT_FOUND"
	IssueGeneratorFailed   ReportIssueCode = "GENERATOR_FAILED"
	IssueAssetMissing      ReportIssueCode = "ASSET_MISSING"
	IssueBrokenLinks       ReportIssueCode = "BROKEN_LINKS"
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured entry describing a discrete problem encountered.
type ReportIssue struct {
	Code     ReportIssueCode `json:"code"`
	Stage    StageName       `json:"stage"`
	Severity IssueSeverity   `json:"severity"`
	Message  string          `json:"message"`
}

// Report captures the outcome of one pipeline run.
type Report struct {
	BuildID        string
	Command        string
	Start          time.Time
	End            time.Time
	Errors         []error // fatal errors causing build abortion (at most one)
	Warnings       []error
	Stages         []StageName // stages that ran, in order
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult
	Issues         []ReportIssue
	Outcome        BuildOutcome

	DeclarationFiles int
	CombinedBytes    int64
	AssetFiles       int
	AssetsChanged    int
	LinksChecked     int
	BrokenLinks      int
}

// NewReport constructs an empty report for command.
func NewReport(buildID, command string) *Report {
	return &Report{
		BuildID:        buildID,
		Command:        command,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
	}
}

// AddIssue appends a structured issue and mirrors severity into Errors/Warnings slices.
func (r *Report) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, msg string, err error) {
	r.Issues = append(r.Issues, ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg})
	if err != nil {
		switch severity {
		case SeverityError:
			r.Errors = append(r.Errors, err)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, err)
		}
	}
}

// RecordStageResult stores the stage result and emits it through recorder (if non-nil).
func (r *Report) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	r.Stages = append(r.Stages, stage)
	r.StageResults[stage] = res
	if recorder == nil {
		return
	}
	switch res {
	case StageResultSuccess:
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultWarning:
		recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageResultFatal:
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	}
}

// Finish sets the end time of the report.
func (r *Report) Finish() { r.End = time.Now() }

// Duration is the wall time between start and finish.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// DeriveOutcome sets the Outcome field based on recorded errors/warnings.
func (r *Report) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("command=%s declarations=%d assets=%d changed=%d links=%d broken=%d duration=%s errors=%d warnings=%d stages=%d outcome=%s",
		r.Command, r.DeclarationFiles, r.AssetFiles, r.AssetsChanged, r.LinksChecked, r.BrokenLinks,
		r.Duration().Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), len(r.Stages), string(r.Outcome))
}

// reportJSON is the serialized form; errors become strings.
type reportJSON struct {
	BuildID          string                    `json:"build_id"`
	Command          string                    `json:"command"`
	Start            time.Time                 `json:"start"`
	End              time.Time                 `json:"end"`
	Outcome          string                    `json:"outcome"`
	Stages           []StageName               `json:"stages"`
	StageDurationsMS map[StageName]int64       `json:"stage_durations_ms"`
	StageResults     map[StageName]StageResult `json:"stage_results"`
	Issues           []ReportIssue             `json:"issues"`
	Errors           []string                  `json:"errors"`
	Warnings         []string                  `json:"warnings"`
	DeclarationFiles int                       `json:"declaration_files"`
	CombinedBytes    int64                     `json:"combined_bytes"`
	AssetFiles       int                       `json:"asset_files"`
	AssetsChanged    int                       `json:"assets_changed"`
	LinksChecked     int                       `json:"links_checked"`
	BrokenLinks      int                       `json:"broken_links"`
}

func errStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

// Persist writes the report as JSON into dir atomically.
func (r *Report) Persist(dir string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	durations := make(map[StageName]int64, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durations[k] = v.Milliseconds()
	}
	issues := r.Issues
	if issues == nil {
		issues = []ReportIssue{}
	}
	data, err := json.MarshalIndent(reportJSON{
		BuildID:          r.BuildID,
		Command:          r.Command,
		Start:            r.Start,
		End:              r.End,
		Outcome:          string(r.Outcome),
		Stages:           r.Stages,
		StageDurationsMS: durations,
		StageResults:     r.StageResults,
		Issues:           issues,
		Errors:           errStrings(r.Errors),
		Warnings:         errStrings(r.Warnings),
		DeclarationFiles: r.DeclarationFiles,
		CombinedBytes:    r.CombinedBytes,
		AssetFiles:       r.AssetFiles,
		AssetsChanged:    r.AssetsChanged,
		LinksChecked:     r.LinksChecked,
		BrokenLinks:      r.BrokenLinks,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("ensure dir for report: %w", err)
	}
	return fsutil.WriteFileAtomic(filepath.Join(dir, ReportFileName), append(data, '\n'), 0o644)
}
