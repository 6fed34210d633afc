package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	r := OrNoop(nil)
	r.ObserveStageDuration("copy", time.Second)
	r.IncBuildOutcome(OutcomeSuccess)
	r.AddPagesWritten("post", 3)
	_, ok := r.(NoopRecorder)
	assert.True(t, ok)
}

func TestPrometheusRecorder_Gather(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("copy", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.AddPagesWritten("catalog", 4)
	pr.SetPostsScanned(7)
	pr.IncScanWarnings()

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["blogbuilder_stage_duration_seconds"])
	assert.True(t, names["blogbuilder_pages_written_total"])
	assert.True(t, names["blogbuilder_posts_scanned"])
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).SetPostsScanned(2)

	path := filepath.Join(t.TempDir(), "blog.prom")
	require.NoError(t, WriteTextfile(reg, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "blogbuilder_posts_scanned 2")

	require.Error(t, WriteTextfile(nil, path))
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncScanWarnings()

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blogbuilder_scan_warnings_total 1")
}
