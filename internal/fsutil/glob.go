package fsutil

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Match expands pattern relative to root and returns the matching regular files
// in listing order. The syntax is that of path.Match per segment, plus "**" for
// zero or more directories.
func Match(root, pattern string) ([]string, error) {
	full := filepath.ToSlash(pattern)
	if !filepath.IsAbs(pattern) {
		full = path.Join(filepath.ToSlash(root), full)
	}

	segs := strings.Split(full, "/")
	split := len(segs)
	for i, s := range segs {
		if hasMeta(s) {
			split = i
			break
		}
	}
	base := strings.Join(segs[:split], "/")
	if base == "" && strings.HasPrefix(full, "/") {
		base = "/"
	}
	rest := segs[split:]
	if len(rest) == 0 {
		info, err := os.Stat(filepath.FromSlash(base))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, err
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return []string{filepath.FromSlash(base)}, nil
	}
	if base == "" {
		base = "."
	}

	recursive := false
	for _, s := range rest {
		if s == "**" {
			recursive = true
		}
	}

	var out []string
	baseDir := filepath.FromSlash(base)
	err := filepath.WalkDir(baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == baseDir && os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}
		rel, relErr := filepath.Rel(baseDir, p)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if d.IsDir() {
			if !recursive && len(parts) >= len(rest) {
				return fs.SkipDir
			}
			return nil
		}
		if !IsRegularEntry(p, d) {
			return nil
		}
		if matchSegments(rest, parts) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func matchSegments(pattern, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(parts); i++ {
			if matchSegments(pattern[1:], parts[i:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	ok, err := path.Match(pattern[0], parts[0])
	return err == nil && ok && matchSegments(pattern[1:], parts[1:])
}

// IsRegularEntry reports whether the walked entry at p is a regular file or a
// symlink resolving to one.
func IsRegularEntry(p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func hasMeta(s string) bool { return strings.ContainsAny(s, `*?[\`) }

// StaticPrefix returns the leading directory of pattern that holds no glob meta
// characters, i.e. the directory a match's relative path is measured from.
func StaticPrefix(pattern string) string {
	segs := strings.Split(filepath.ToSlash(pattern), "/")
	var prefix []string
	for _, s := range segs[:len(segs)-1] {
		if hasMeta(s) {
			break
		}
		prefix = append(prefix, s)
	}
	if len(prefix) == 0 {
		return "."
	}
	if len(prefix) == 1 && prefix[0] == "" {
		return "/"
	}
	return filepath.FromSlash(strings.Join(prefix, "/"))
}

// HasMeta reports whether pattern contains glob meta characters.
func HasMeta(pattern string) bool { return hasMeta(pattern) }
