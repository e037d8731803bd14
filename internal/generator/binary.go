package generator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
)

// maxOutputInError bounds how much tool output is attached to an error.
const maxOutputInError = 4096

// BinaryGenerator invokes an executable (TypeDoc by default) resolved on PATH.
type BinaryGenerator struct {
	Command string
	Args    []string // template; ${input} ${out} ${title} ${readme} are substituted
}

// ExpandArgs substitutes invocation values into the argument template. Unknown
// variables resolve from the process environment.
func (b *BinaryGenerator) ExpandArgs(inv Invocation) []string {
	vars := map[string]string{
		"input":  inv.Input,
		"out":    inv.OutDir,
		"title":  inv.Title,
		"readme": inv.Readme,
	}
	out := make([]string, len(b.Args))
	for i, a := range b.Args {
		out[i] = os.Expand(a, func(k string) string {
			if v, ok := vars[k]; ok {
				return v
			}
			return os.Getenv(k)
		})
	}
	return out
}

func (b *BinaryGenerator) Execute(ctx context.Context, inv Invocation) error {
	bin, err := exec.LookPath(b.Command)
	if err != nil {
		return errors.WrapError(fmt.Errorf("%w: %w", ErrGeneratorNotFound, err), errors.CategoryGenerator,
			"documentation generator not found").Fatal().WithContext("command", b.Command).Build()
	}
	if _, err := os.Stat(inv.Input); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "combined declaration file missing").
			WithContext("path", inv.Input).Build()
	}
	if err := os.MkdirAll(inv.OutDir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create generator output directory").
			WithContext("path", inv.OutDir).Build()
	}

	args := b.ExpandArgs(inv)
	// #nosec G204 - command and args come from the project configuration
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = inv.WorkDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("BinaryGenerator invoking command", logfields.Command(bin), slog.Any("args", args))

	err = cmd.Run()

	outStr := stdout.String()
	errStr := stderr.String()
	if outStr != "" {
		slog.Debug("generator stdout", "output", outStr)
	}
	if errStr != "" {
		slog.Warn("generator stderr", "error_output", errStr)
	}

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Generators report problems on either stream.
		output := strings.TrimSpace(strings.Join([]string{outStr, errStr}, "\n"))
		eb := errors.WrapError(fmt.Errorf("%w: %w", ErrGeneratorFailed, err), errors.CategoryGenerator,
			"documentation generator failed").Fatal().WithContext("command", b.Command)
		if output != "" {
			eb = eb.WithContext("output", tail(output, maxOutputInError))
		}
		return eb.Build()
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
