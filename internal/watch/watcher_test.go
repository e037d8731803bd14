package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var fired atomic.Int32
	d := newDebouncer(30*time.Millisecond, func() { fired.Add(1) })
	for range 10 {
		d.trigger()
		time.Sleep(2 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
	d.stop()
}

func TestBuildLoop_NeverOverlaps(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var running, maxRunning, calls atomic.Int32
	release := make(chan struct{})
	w := &Watcher{build: func(context.Context) error {
		n := running.Add(1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		calls.Add(1)
		<-release
		running.Add(-1)
		return errors.New("build failures are logged, not fatal")
	}}

	req := make(chan struct{}, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.buildLoop(ctx, req)
	}()

	req <- struct{}{}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	// While the first build runs, many requests collapse into one queued build.
	for range 5 {
		select {
		case req <- struct{}{}:
		default:
		}
	}
	release <- struct{}{}
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	release <- struct{}{}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), maxRunning.Load())

	cancel()
	wg.Wait()
}

func TestRun_RebuildsOnInputChange(t *testing.T) {
	cfg := testConfig(t)
	decl := cfg.Path("declarations")
	require.NoError(t, os.MkdirAll(decl, 0o755))
	require.NoError(t, os.MkdirAll(cfg.OutputRoot(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(decl, "Block.d.ts"), []byte("declare const a: 1;\n"), 0o644))

	var builds atomic.Int32
	w := New(Roots(cfg, ""), NewFilter(cfg), 20*time.Millisecond, func(context.Context) error {
		builds.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond, "initial build")
	// Give the watcher time to register its roots before changing files.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputRoot(), "index.html"), []byte("x"), 0o644))
	assert.Never(t, func() bool { return builds.Load() > 1 }, 200*time.Millisecond, 10*time.Millisecond, "output writes are ignored")

	require.NoError(t, os.WriteFile(filepath.Join(decl, "Item.d.ts"), []byte("declare const b: 2;\n"), 0o644))
	require.Eventually(t, func() bool { return builds.Load() == 2 }, 2*time.Second, 10*time.Millisecond, "rebuild after change")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}

func TestRun_UpdateSwapsRootsAndFilter(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Path("declarations"), 0o755))
	typings := cfg.Path("typings")
	require.NoError(t, os.MkdirAll(typings, 0o755))

	moved := *cfg
	moved.Declarations.Pattern = "typings/*.d.ts"
	moved.Metrics.Textfile = "kexdocs.prom"

	var builds atomic.Int32
	var w *Watcher
	w = New(Roots(cfg, ""), NewFilter(cfg), 20*time.Millisecond, func(context.Context) error {
		builds.Add(1)
		w.Update(Roots(&moved, ""), NewFilter(&moved))
		return nil
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond, "initial build")
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(typings, "Item.d.ts"), []byte("declare const b: 2;\n"), 0o644))
	require.Eventually(t, func() bool { return builds.Load() == 2 }, 2*time.Second, 10*time.Millisecond, "new declarations root is watched")
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(moved.Path("kexdocs.prom"), []byte("# metrics\n"), 0o644))
	assert.Never(t, func() bool { return builds.Load() > 2 }, 200*time.Millisecond, 10*time.Millisecond, "new textfile is ignored")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}

func TestUpdate_KeepsLatestPending(t *testing.T) {
	w := New(nil, &Filter{}, time.Millisecond, nil)
	first := []Root{{Dir: "/a"}}
	latest := []Root{{Dir: "/b", Recursive: true}}
	w.Update(first, &Filter{})
	w.Update(latest, &Filter{})

	set := <-w.updates
	assert.Equal(t, latest, set.roots)
	assert.Empty(t, w.updates)
}
