package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerStartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logger = testr.New(t)
	srv, err := NewServer(cfg)
	require.NoError(t, err)

	addr, err := srv.Start()
	require.NoError(t, err)
	assert.NotEqual(t, "127.0.0.1:0", addr)
	assert.Equal(t, addr, srv.Addr())

	again, err := srv.Start()
	require.NoError(t, err)
	assert.Equal(t, addr, again, "Start is idempotent while running")

	resp, err := http.Get(srv.URL() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "pagewait fixtures")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, srv.Shutdown(ctx))

	_, err = http.Get(srv.URL() + "/")
	assert.Error(t, err, "expected connection error after shutdown")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:0", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.Delay)
}

func TestNewServer_RejectsNegativeDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delay = -time.Second
	_, err := NewServer(cfg)
	assert.ErrorContains(t, err, "delay")
}

func TestRouter(t *testing.T) {
	h := NewRouter(750*time.Millisecond, testr.New(t))

	tests := []struct {
		path     string
		status   int
		contains []string
	}{
		{"/", http.StatusOK, []string{
			`id="region"`, `id="refresh"`, `id="list"`, `id="grow"`,
			`id="open-popup"`, `id="popup-alert"`, `id="show-alert"`, `id="frame"`,
			`id="focus-target"`, `id="toggle"`, `id="status"`, `id="banner"`, `id="empty"`,
		}},
		{"/frame", http.StatusOK, []string{`id="inner"`}},
		{"/popup", http.StatusOK, []string{`id="popup-title"`, `has('alert')`}},
		{"/healthz", http.StatusOK, []string{"ok"}},
		{"/missing", http.StatusNotFound, nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rr.Code)
			for _, want := range tt.contains {
				assert.Contains(t, rr.Body.String(), want)
			}
		})
	}
}

func TestRouter_InjectsDelay(t *testing.T) {
	h := NewRouter(750*time.Millisecond, logr.Discard())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Regexp(t, `const delay = +750 *;`, rr.Body.String())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h := NewRouter(0, logr.Discard())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
