package watch

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"git.home.luguber.info/inful/kexdocs/internal/config"
	"git.home.luguber.info/inful/kexdocs/internal/fsutil"
)

// Root is a directory to watch.
type Root struct {
	Dir       string
	Recursive bool
}

// Filter decides which paths are inputs. Build outputs are never inputs.
type Filter struct {
	ignoreDirs  []string
	ignoreFiles map[string]struct{}
}

// NewFilter ignores the output root, the generator output, the state directory and
// the combined declaration file.
func NewFilter(cfg *config.Config) *Filter {
	f := &Filter{ignoreFiles: make(map[string]struct{})}
	for _, d := range []string{cfg.OutputRoot(), cfg.Path(cfg.Generator.Out), cfg.Path(cfg.State.Directory)} {
		f.ignoreDirs = append(f.ignoreDirs, absClean(d))
	}
	f.ignoreFiles[absClean(cfg.Path(cfg.Declarations.Output))] = struct{}{}
	if cfg.Metrics.Textfile != "" {
		f.ignoreFiles[absClean(cfg.Path(cfg.Metrics.Textfile))] = struct{}{}
	}
	return f
}

// Ignored reports whether a change to path must not trigger a rebuild.
func (f *Filter) Ignored(path string) bool {
	if isScratchFile(filepath.Base(path)) {
		return true
	}
	p := absClean(path)
	if _, ok := f.ignoreFiles[p]; ok {
		return true
	}
	return f.ignoredDir(p)
}

func (f *Filter) equal(o *Filter) bool {
	return slices.Equal(f.ignoreDirs, o.ignoreDirs) && maps.Equal(f.ignoreFiles, o.ignoreFiles)
}

func (f *Filter) ignoredDir(p string) bool {
	for _, d := range f.ignoreDirs {
		if p == d || strings.HasPrefix(p, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// isScratchFile matches hidden, editor swap and temp files, including the
// temp files of atomic writes.
func isScratchFile(base string) bool {
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"),
		base == "Thumbs.db":
		return true
	}
	return false
}

// Roots lists the directories holding inputs: the declaration glob base, every
// copy rule source and the directory of the configuration file.
func Roots(cfg *config.Config, configPath string) []Root {
	seen := make(map[string]bool)
	add := func(dir string, recursive bool) {
		dir = absClean(dir)
		seen[dir] = seen[dir] || recursive
	}

	add(cfg.Path(fsutil.StaticPrefix(cfg.Declarations.Pattern)), true)
	add(cfg.ProjectDir, false)
	if configPath != "" {
		add(filepath.Dir(configPath), false)
	}
	for _, rule := range cfg.Assets {
		if fsutil.HasMeta(rule.Src) {
			add(cfg.Path(fsutil.StaticPrefix(rule.Src)), true)
			continue
		}
		src := cfg.Path(rule.Src)
		if info, err := os.Stat(src); err == nil && info.IsDir() {
			add(src, true)
		} else {
			add(filepath.Dir(src), false)
		}
	}

	roots := make([]Root, 0, len(seen))
	for dir, rec := range seen {
		roots = append(roots, Root{Dir: dir, Recursive: rec})
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Dir < roots[j].Dir })
	return roots
}

func absClean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
