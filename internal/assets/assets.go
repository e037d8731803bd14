// Package assets copies static site files (Docsify config, images, headers,
// README) into the documentation output root.
package assets

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/kexdocs/internal/config"
	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/kexdocs/internal/fsutil"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
)

// ErrAssetMissing indicates a non-optional copy rule source does not exist.
var ErrAssetMissing = stderrors.New("asset source missing")

// Result lists what a copy run wrote.
type Result struct {
	Files   []string // destination paths relative to the output root, sorted
	Changed int      // files whose bytes or mode actually changed
	Skipped []string // optional rules whose source was absent
}

// Copier applies copy rules from a project directory into an output root.
type Copier struct {
	ProjectDir string
	OutputRoot string
}

// New creates a Copier.
func New(projectDir, outputRoot string) *Copier {
	return &Copier{ProjectDir: projectDir, OutputRoot: outputRoot}
}

// Copy applies every rule in order. Later rules overwrite files written by earlier ones.
func (c *Copier) Copy(ctx context.Context, rules []config.AssetRule) (*Result, error) {
	res := &Result{}
	written := make(map[string]struct{})

	for _, rule := range rules {
		pairs, found, err := c.expand(rule)
		if err != nil {
			return nil, err
		}
		if !found {
			if rule.Optional {
				slog.Debug("Optional asset source absent", logfields.Path(rule.Src))
				res.Skipped = append(res.Skipped, rule.Src)
				continue
			}
			return nil, errors.WrapError(ErrAssetMissing, errors.CategoryNotFound, "asset source missing").
				Fatal().WithContext("src", rule.Src).Build()
		}

		for _, p := range pairs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if _, dup := written[p.rel]; dup {
				slog.Debug("Asset overwrites earlier copy", logfields.Path(p.rel))
			}
			changed, err := fsutil.CopyFile(p.src, filepath.Join(c.OutputRoot, p.rel))
			if err != nil {
				return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to copy asset").
					WithContext("src", p.src).WithContext("dest", p.rel).Build()
			}
			if changed {
				res.Changed++
			}
			written[p.rel] = struct{}{}
		}
		slog.Debug("Asset rule applied", logfields.Path(rule.Src), logfields.Files(len(pairs)))
	}

	res.Files = make([]string, 0, len(written))
	for rel := range written {
		res.Files = append(res.Files, filepath.ToSlash(rel))
	}
	sort.Strings(res.Files)
	slog.Info("Static assets copied",
		logfields.Path(c.OutputRoot), logfields.Files(len(res.Files)), slog.Int("changed", res.Changed))
	return res, nil
}

type copyPair struct {
	src string
	rel string // destination relative to the output root
}

// expand resolves one rule into source/destination pairs. found is false when the
// source does not exist or a pattern matched nothing.
func (c *Copier) expand(rule config.AssetRule) ([]copyPair, bool, error) {
	dest := filepath.Clean(rule.Dest)
	target := func(rel string) string {
		if rule.Flatten {
			rel = filepath.Base(rel)
		}
		return filepath.Join(dest, rel)
	}

	if fsutil.HasMeta(rule.Src) {
		matches, err := fsutil.Match(c.ProjectDir, rule.Src)
		if err != nil {
			return nil, false, errors.WrapError(err, errors.CategoryFileSystem, "failed to expand asset pattern").
				WithContext("src", rule.Src).Build()
		}
		base := c.resolve(fsutil.StaticPrefix(rule.Src))
		pairs := make([]copyPair, 0, len(matches))
		for _, m := range matches {
			rel, err := filepath.Rel(base, m)
			if err != nil {
				return nil, false, err
			}
			pairs = append(pairs, copyPair{src: m, rel: target(rel)})
		}
		return pairs, len(pairs) > 0, nil
	}

	src := c.resolve(rule.Src)
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat asset source").
			WithContext("src", rule.Src).Build()
	}
	if !info.IsDir() {
		return []copyPair{{src: src, rel: filepath.Join(dest, filepath.Base(src))}}, true, nil
	}

	var pairs []copyPair
	err = filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !fsutil.IsRegularEntry(p, d) {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		pairs = append(pairs, copyPair{src: p, rel: target(rel)})
		return nil
	})
	if err != nil {
		return nil, false, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk asset directory").
			WithContext("src", rule.Src).Build()
	}
	return pairs, true, nil
}

func (c *Copier) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}
