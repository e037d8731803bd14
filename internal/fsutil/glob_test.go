package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"declarations/a.d.ts",
		"declarations/z.d.ts",
		"declarations/commands/args.d.ts",
		"declarations/commands/deep/more.d.ts",
		"declarations/readme.md",
	} {
		writeFile(t, root, rel, rel)
	}

	rel := func(paths []string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			r, err := filepath.Rel(root, p)
			require.NoError(t, err)
			out[i] = filepath.ToSlash(r)
		}
		return out
	}

	tests := []struct {
		pattern string
		want    []string
	}{
		{"declarations/*.d.ts", []string{"declarations/a.d.ts", "declarations/z.d.ts"}},
		{"declarations/**/*.d.ts", []string{
			"declarations/a.d.ts",
			"declarations/commands/args.d.ts",
			"declarations/commands/deep/more.d.ts",
			"declarations/z.d.ts",
		}},
		{"declarations/*/*.d.ts", []string{"declarations/commands/args.d.ts"}},
		{"declarations/a.d.ts", []string{"declarations/a.d.ts"}},
		{"declarations/missing.d.ts", []string{}},
		{"nowhere/*.d.ts", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Match(root, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(got))
		})
	}
}

func TestMatch_AbsolutePattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "d/x.d.ts", "x")

	got, err := Match("/unused", filepath.Join(root, "d", "*.d.ts"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "d", "x.d.ts")}, got)
}

func TestStaticPrefix(t *testing.T) {
	cases := map[string]string{
		"images/*.png":            "images",
		"documentation/**/*.md":   "documentation",
		"*.md":                    ".",
		"a/b/c.txt":               filepath.FromSlash("a/b"),
		"static/[ab]/x/*.css":     "static",
	}
	for in, want := range cases {
		assert.Equal(t, want, StaticPrefix(in), in)
	}
}

func TestMatch_IncludesSymlinkedFiles(t *testing.T) {
	root := t.TempDir()
	shared := t.TempDir()
	writeFile(t, root, "declarations/A.d.ts", "declare class A {}")
	writeFile(t, shared, "B.d.ts", "declare class B {}")
	symlink(t, filepath.Join(shared, "B.d.ts"), filepath.Join(root, "declarations", "B.d.ts"))
	symlink(t, filepath.Join(shared, "gone.d.ts"), filepath.Join(root, "declarations", "C.d.ts"))
	require.NoError(t, os.MkdirAll(filepath.Join(shared, "sub"), 0o755))
	symlink(t, filepath.Join(shared, "sub"), filepath.Join(root, "declarations", "D.d.ts"))

	got, err := Match(root, "declarations/*.d.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "declarations", "A.d.ts"),
		filepath.Join(root, "declarations", "B.d.ts"),
	}, got)
}
