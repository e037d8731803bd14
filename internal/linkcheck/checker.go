package linkcheck

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/kexdocs/internal/logfields"
)

// ErrBrokenLinks indicates at least one local link target is missing.
var ErrBrokenLinks = stderrors.New("broken local links")

// Broken is a link whose target does not exist.
type Broken struct {
	Source string `json:"source"` // page relative to the root
	Target string `json:"target"`
	Kind   Kind   `json:"kind"`
}

// Report summarises one verification run.
type Report struct {
	Pages   int
	Checked int
	Broken  []Broken
}

// Err returns a classified error listing broken links, or nil.
func (r *Report) Err() error {
	if len(r.Broken) == 0 {
		return nil
	}
	eb := errors.WrapError(ErrBrokenLinks, errors.CategoryValidation, "output contains broken local links").
		WithContext("count", len(r.Broken))
	limit := min(len(r.Broken), 10)
	samples := make([]string, 0, limit)
	for _, b := range r.Broken[:limit] {
		samples = append(samples, b.Source+" -> "+b.Target)
	}
	return eb.WithContext("links", strings.Join(samples, ", ")).Build()
}

// Checker walks an output root and verifies local links.
type Checker struct {
	Root   string
	Ignore []string // path.Match patterns applied to raw targets
}

// Check verifies every markdown and HTML page under the root.
func (c *Checker) Check(ctx context.Context) (*Report, error) {
	rep := &Report{}
	err := filepath.WalkDir(c.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		var links []Link
		switch ext {
		case ".md", ".markdown":
			body, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			links = ExtractMarkdownLinks(body)
		case ".html", ".htm":
			body, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			links, err = ExtractHTMLLinks(bytes.NewReader(body))
			if err != nil {
				slog.Warn("Skipping unparsable HTML page", logfields.Path(p), logfields.Error(err))
				return nil
			}
		default:
			return nil
		}
		rep.Pages++

		rel, err := filepath.Rel(c.Root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, l := range links {
			target, ok := c.localTarget(l.Target)
			if !ok {
				continue
			}
			rep.Checked++
			if !c.exists(rel, target, ext != ".html" && ext != ".htm") {
				rep.Broken = append(rep.Broken, Broken{Source: rel, Target: l.Target, Kind: l.Kind})
			}
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk output for link verification").
			WithContext("root", c.Root).Build()
	}
	sort.Slice(rep.Broken, func(i, j int) bool {
		if rep.Broken[i].Source != rep.Broken[j].Source {
			return rep.Broken[i].Source < rep.Broken[j].Source
		}
		return rep.Broken[i].Target < rep.Broken[j].Target
	})
	return rep, nil
}

// localTarget returns the decoded path part of a link that should exist on disk.
func (c *Checker) localTarget(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "//") {
		return "", false
	}
	for _, pat := range c.Ignore {
		if ok, _ := path.Match(pat, raw); ok {
			return "", false
		}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}
	return u.Path, true
}

// exists resolves target from the page at rel. Markdown links may also be root
// relative and may omit the .md extension, as Docsify routes them that way.
func (c *Checker) exists(rel, target string, markdown bool) bool {
	var candidates []string
	if strings.HasPrefix(target, "/") {
		candidates = append(candidates, path.Clean(strings.TrimPrefix(target, "/")))
	} else {
		candidates = append(candidates, path.Join(path.Dir(rel), target))
		if markdown {
			candidates = append(candidates, path.Clean(target))
		}
	}
	for _, cand := range candidates {
		if cand == ".." || strings.HasPrefix(cand, "../") {
			continue
		}
		if c.fileOrIndex(cand, markdown) {
			return true
		}
	}
	return false
}

func (c *Checker) fileOrIndex(rel string, markdown bool) bool {
	full := filepath.Join(c.Root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err == nil {
		if !info.IsDir() {
			return true
		}
		for _, idx := range []string{"index.html", "README.md"} {
			if _, err := os.Stat(filepath.Join(full, idx)); err == nil {
				return true
			}
		}
		return false
	}
	if markdown && filepath.Ext(full) == "" {
		if _, err := os.Stat(full + ".md"); err == nil {
			return true
		}
	}
	return false
}
