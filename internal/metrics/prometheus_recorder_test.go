package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.ObserveStageDuration("aggregate", 150*time.Millisecond)
	pr.IncStageResult("aggregate", ResultSuccess)
	pr.IncStageResult("generate", ResultFatal)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome("failed")
	pr.AddFilesProcessed("copy_assets", 12)
	pr.SetCombinedBytes(2048)
	pr.IncBrokenLinks(3)

	assert.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("generate", "fatal")), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(pr.filesProcessed.WithLabelValues("copy_assets")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("failed")), 0)
	assert.InDelta(t, 2048, testutil.ToFloat64(pr.combinedBytes), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.brokenLinks), 0)

	mfs, err := pr.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome("success")

	path := filepath.Join(t.TempDir(), "kexdocs.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kexdocs_build_outcomes_total{outcome="success"} 1`)
}
