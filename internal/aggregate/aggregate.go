package aggregate

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/kexdocs/internal/fsutil"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
)

// ErrNoDeclarations indicates the declarations glob matched no file.
var ErrNoDeclarations = stderrors.New("no declaration files matched")

// Options configures one aggregation run.
type Options struct {
	Root       string // pattern and output are resolved against Root
	Pattern    string
	Output     string
	Banner     string
	Separator  string
	AllowEmpty bool
}

// FileDigest records one input file.
type FileDigest struct {
	Path   string `json:"path"` // relative to Options.Root
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Result describes the combined declaration file.
type Result struct {
	Output    string
	Inputs    []FileDigest
	Bytes     int64
	SHA256    string
	Unchanged bool // output already held identical bytes and was not rewritten
}

// Files returns the input paths in concatenation order.
func (r *Result) Files() []string {
	out := make([]string, len(r.Inputs))
	for i, in := range r.Inputs {
		out[i] = in.Path
	}
	return out
}

// Aggregate concatenates every declaration matched by opts.Pattern into opts.Output.
func Aggregate(ctx context.Context, opts Options) (*Result, error) {
	output := resolve(opts.Root, opts.Output)

	matches, err := fsutil.Match(opts.Root, opts.Pattern)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to expand declarations pattern").
			WithContext("pattern", opts.Pattern).Build()
	}
	files := make([]string, 0, len(matches))
	absOut, _ := filepath.Abs(output)
	for _, m := range matches {
		// The previous artifact may live under the glob; never feed it back in.
		if abs, _ := filepath.Abs(m); abs == absOut {
			continue
		}
		files = append(files, m)
	}
	if len(files) == 0 && !opts.AllowEmpty {
		return nil, errors.WrapError(ErrNoDeclarations, errors.CategoryNotFound, "no declaration files to aggregate").
			Fatal().WithContext("pattern", opts.Pattern).Build()
	}

	content, inputs, err := concat(ctx, opts, files)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(content)
	res := &Result{
		Output: output,
		Inputs: inputs,
		Bytes:  int64(len(content)),
		SHA256: hex.EncodeToString(sum[:]),
	}

	if existing, err := os.ReadFile(output); err == nil && bytes.Equal(existing, content) {
		res.Unchanged = true
		slog.Debug("Combined declaration file unchanged", logfields.Path(output))
		return res, nil
	}
	if err := fsutil.WriteFileAtomic(output, content, 0o644); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to write combined declaration file").
			WithContext("path", output).Build()
	}
	slog.Info("Combined declaration file written",
		logfields.Path(output), logfields.Files(len(inputs)), logfields.Bytes(res.Bytes))
	return res, nil
}

func concat(ctx context.Context, opts Options, files []string) ([]byte, []FileDigest, error) {
	var buf bytes.Buffer
	buf.WriteString(opts.Banner)
	buf.WriteByte('\n')

	inputs := make([]FileDigest, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read declaration file").
				WithContext("path", f).Build()
		}
		if i > 0 {
			buf.WriteString(opts.Separator)
		}
		buf.Write(data)

		rel, relErr := filepath.Rel(opts.Root, f)
		if relErr != nil {
			rel = f
		}
		sum := sha256.Sum256(data)
		inputs = append(inputs, FileDigest{
			Path:   filepath.ToSlash(rel),
			Size:   int64(len(data)),
			SHA256: hex.EncodeToString(sum[:]),
		})
		slog.Debug("Declaration appended", logfields.Path(f), logfields.Bytes(int64(len(data))))
	}
	return buf.Bytes(), inputs, nil
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
