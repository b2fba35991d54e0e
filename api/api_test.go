package api

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthlab/synth360/metrics"
)

func TestHealthRoute(t *testing.T) {
	server := NewServer(ServerOptions{}, nil)

	resp, err := server.GetApp().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestVersionRoute(t *testing.T) {
	server := NewServer(ServerOptions{}, nil)

	resp, err := server.GetApp().Test(httptest.NewRequest("GET", "/version", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "synth360 API", payload["service"])
	assert.NotEmpty(t, payload["version"])
}

func TestReportRoute(t *testing.T) {
	holder := &ReportHolder{}
	server := NewServer(ServerOptions{}, holder)

	// No run recorded yet.
	resp, err := server.GetApp().Test(httptest.NewRequest("GET", "/report", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)

	holder.Set(metrics.RunReport{
		Metadata: metrics.RunMetadata{Table: "known_customer_360", Records: 100, Seed: 42},
		Upload:   metrics.UploadResult{Succeeded: true, RowsSent: 100},
	})

	resp, err = server.GetApp().Test(httptest.NewRequest("GET", "/report", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var run metrics.RunReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, "known_customer_360", run.Metadata.Table)
	assert.Equal(t, int64(100), run.Upload.RowsSent)
	assert.True(t, run.Upload.Succeeded)
}

func TestReportHolder_GetBeforeSet(t *testing.T) {
	holder := &ReportHolder{}
	_, ok := holder.Get()
	assert.False(t, ok)

	holder.Set(metrics.RunReport{Metadata: metrics.RunMetadata{Table: "t"}})
	run, ok := holder.Get()
	require.True(t, ok)
	assert.Equal(t, "t", run.Metadata.Table)
}
