package observability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerExposesMetricsAndHealth(t *testing.T) {
	RunsTotal.WithLabelValues("ok").Inc()
	ObserveStage("render", time.Now().Add(-time.Millisecond))

	srv := NewServer("127.0.0.1:0", func() any { return "abc" })
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "resgen_runs_total"))
	assert.True(t, strings.Contains(string(body), `resgen_stage_seconds_count{stage="render"}`))

	resp, err = http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "up", health["status"])
	assert.Equal(t, "abc", health["last_run"])
}
