package generator

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func newInvocation(t *testing.T) Invocation {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "kernel-extension.d.ts")
	require.NoError(t, os.WriteFile(input, []byte("declare class BlockState {}"), 0o644))
	return Invocation{
		Input:   input,
		OutDir:  filepath.Join(dir, "out", "api"),
		Title:   "Kernel Extension",
		Readme:  "README.md",
		WorkDir: dir,
	}
}

func TestExpandArgs(t *testing.T) {
	t.Setenv("KEXDOCS_THEME", "default")
	b := &BinaryGenerator{Args: []string{"--out", "${out}", "--name", "${title}", "--theme", "$KEXDOCS_THEME", "${input}"}}
	inv := Invocation{Input: "in.d.ts", OutDir: "out/api", Title: "Kernel Extension"}

	assert.Equal(t,
		[]string{"--out", "out/api", "--name", "Kernel Extension", "--theme", "default", "in.d.ts"},
		b.ExpandArgs(inv))
}

func TestBinaryGenerator_Success(t *testing.T) {
	requireShell(t)
	inv := newInvocation(t)
	b := &BinaryGenerator{
		Command: "sh",
		Args:    []string{"-c", `cp "$2" "$1/index.html"`, "gen", "${out}", "${input}"},
	}

	require.NoError(t, b.Execute(t.Context(), inv))

	got, err := os.ReadFile(filepath.Join(inv.OutDir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "declare class BlockState {}", string(got))
}

func TestBinaryGenerator_Failure(t *testing.T) {
	requireShell(t)
	inv := newInvocation(t)
	b := &BinaryGenerator{Command: "sh", Args: []string{"-c", "echo 'TS2304: Cannot find name' >&2; exit 3"}}

	err := b.Execute(t.Context(), inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeneratorFailed)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryGenerator, ce.Category())
	output, _ := ce.Context().GetString("output")
	assert.Contains(t, output, "TS2304")
}

func TestBinaryGenerator_NotFound(t *testing.T) {
	inv := newInvocation(t)
	b := &BinaryGenerator{Command: "kexdocs-no-such-generator"}

	err := b.Execute(t.Context(), inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeneratorNotFound)
}

func TestBinaryGenerator_MissingInput(t *testing.T) {
	requireShell(t)
	inv := newInvocation(t)
	require.NoError(t, os.Remove(inv.Input))

	err := (&BinaryGenerator{Command: "sh", Args: []string{"-c", "true"}}).Execute(t.Context(), inv)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestParseVersion(t *testing.T) {
	cases := map[string]string{
		"0.25.13":                     "0.25.13",
		"TypeDoc 0.26.7\nUsing TS 5.4": "0.26.7",
		"v1.2.3-beta":                 "1.2.3",
		"no version here":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseVersion(in), in)
	}
}

func TestNoopGenerator(t *testing.T) {
	require.NoError(t, NoopGenerator{}.Execute(t.Context(), Invocation{OutDir: "unused"}))
}
