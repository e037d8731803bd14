// Package generator invokes the external documentation generator that turns the
// combined declaration file into an HTML API reference.
package generator

import (
	"context"
	stderrors "errors"
	"log/slog"
)

var (
	// ErrGeneratorNotFound indicates the generator executable was not detected on PATH.
	ErrGeneratorNotFound = stderrors.New("documentation generator not found")
	// ErrGeneratorFailed indicates the generator returned a non-zero exit status.
	ErrGeneratorFailed = stderrors.New("documentation generator failed")
)

// Invocation is everything a generator needs for one run.
type Invocation struct {
	Input   string // combined declaration file
	OutDir  string
	Title   string
	Readme  string
	WorkDir string
}

// Generator abstracts how the API reference is produced. BinaryGenerator runs an
// external tool; NoopGenerator does nothing.
type Generator interface {
	Execute(ctx context.Context, inv Invocation) error
}

// NoopGenerator performs no generation; used in tests and when the stage is disabled.
type NoopGenerator struct{}

func (NoopGenerator) Execute(_ context.Context, inv Invocation) error {
	slog.Debug("NoopGenerator skipping generation", "out", inv.OutDir)
	return nil
}

// Func adapts a function to the Generator interface.
type Func func(ctx context.Context, inv Invocation) error

func (f Func) Execute(ctx context.Context, inv Invocation) error { return f(ctx, inv) }
