package metric

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/circular-buffer/errors"
)

func TestServer_Handler(t *testing.T) {
	registry := NewMetricsRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "handler_test_total",
		Help: "Counter served by the handler test",
	})
	require.NoError(t, registry.RegisterCounter("handler", "handler_test_total", counter))
	counter.Add(3)

	srv := httptest.NewServer(NewServer("", "", registry).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "handler_test_total 3")

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestServer_Defaults(t *testing.T) {
	s := NewServer("", "", NewMetricsRegistry())
	assert.Equal(t, "http://:9090/metrics", s.Address())

	s = NewServer("localhost:9191", "/stats", NewMetricsRegistry())
	assert.Equal(t, "http://localhost:9191/stats", s.Address())
}

func TestServer_StopWithoutStart(t *testing.T) {
	s := NewServer("", "", NewMetricsRegistry())
	err := s.Stop(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotStarted))
}

func TestServer_StartWithoutRegistry(t *testing.T) {
	s := NewServer("127.0.0.1:0", "", nil)
	err := s.Start()
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}
