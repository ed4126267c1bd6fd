package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinemood/auth-server/internal/metrics"
	"github.com/cinemood/auth-server/internal/testutil"
)

func TestHTTPServer_Metrics(t *testing.T) {
	t.Parallel()

	registry := metrics.NewRegistry()
	m := metrics.NewMetrics(registry)
	m.ObserveRequest("/cinemood.auth.v1.Auth/Login", "OK", 5*time.Millisecond)

	s := NewHTTPServer(":0", registry, nil, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cinemood_auth_grpc_requests_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestHTTPServer_Health(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		ready    ReadinessChecker
		wantCode int
		wantBody string
	}{
		{"liveness", "/healthz/liveness", func(context.Context) error { return errors.New("down") }, http.StatusOK, "ok\n"},
		{"ready", "/healthz/readiness", func(context.Context) error { return nil }, http.StatusOK, "ok\n"},
		{"no checker", "/healthz/readiness", nil, http.StatusOK, "ok\n"},
		{"not ready", "/healthz/readiness", func(context.Context) error { return errors.New("redis down") }, http.StatusServiceUnavailable, "not ready\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewHTTPServer(":0", metrics.NewRegistry(), tt.ready, testutil.MakeNoopLogger())

			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHTTPServer_StartStop(t *testing.T) {
	t.Parallel()

	s := NewHTTPServer("127.0.0.1:0", metrics.NewRegistry(), nil, testutil.MakeNoopLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- s.Start(fixedListener{ln}) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/healthz/liveness")
		return err == nil
	}, time.Second, 10*time.Millisecond)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok\n", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.NoError(t, <-served)
}

type fixedListener struct{ ln net.Listener }

func (f fixedListener) Listen(string, string) (net.Listener, error) { return f.ln, nil }
