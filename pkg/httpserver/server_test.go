package httpserver_test

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/httpserver"
)

func listenAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func waitReachable(t *testing.T, addr string) {
	t.Helper()
	for range 100 {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			_ = conn.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server at %s never came up", addr)
}

func awaitRun(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestServer_RunAndShutdown(t *testing.T) {
	t.Parallel()

	addr := listenAddr(t)
	srv := httpserver.New(
		httpserver.WithAddr(addr),
		httpserver.WithShutdownTimeout(100*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
	}()

	waitReachable(t, addr)
	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	awaitRun(t, done)
}

func TestServer_ManualShutdown(t *testing.T) {
	t.Parallel()

	addr := listenAddr(t)
	started := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithAddr(addr),
		httpserver.WithShutdownTimeout(100*time.Millisecond),
		httpserver.WithStartHook(func(*slog.Logger) { close(started) }),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), http.NewServeMux()) }()
	<-started

	require.NoError(t, srv.Shutdown(context.Background()))
	awaitRun(t, done)

	// Shutdown is idempotent.
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestServer_StartFailure(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr(":no-such-port"))
	err := srv.Run(context.Background(), http.NewServeMux())
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestServer_SecondRunRejected(t *testing.T) {
	t.Parallel()

	addr := listenAddr(t)
	started := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithAddr(addr),
		httpserver.WithShutdownTimeout(50*time.Millisecond),
		httpserver.WithStartHook(func(*slog.Logger) { close(started) }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, http.NewServeMux()) }()
	<-started

	err := srv.Run(context.Background(), http.NewServeMux())
	assert.ErrorIs(t, err, httpserver.ErrStart)

	cancel()
	awaitRun(t, done)
}

func TestServer_Hooks(t *testing.T) {
	t.Parallel()

	addr := listenAddr(t)
	var started, stopped atomic.Bool
	ready := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithAddr(addr),
		httpserver.WithShutdownTimeout(50*time.Millisecond),
		httpserver.WithStartHook(func(*slog.Logger) {
			started.Store(true)
			close(ready)
		}),
		httpserver.WithStopHook(func(*slog.Logger) { stopped.Store(true) }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, http.NewServeMux()) }()
	<-ready
	cancel()
	awaitRun(t, done)

	assert.True(t, started.Load())
	assert.True(t, stopped.Load())
}

func TestServer_CallerSuppliedServer(t *testing.T) {
	t.Parallel()

	addr := listenAddr(t)
	hs := &http.Server{ReadTimeout: 7 * time.Second}
	ready := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithServer(hs),
		httpserver.WithAddr(addr),
		httpserver.WithReadTimeout(time.Second),
		httpserver.WithWriteTimeout(2*time.Second),
		httpserver.WithIdleTimeout(3*time.Second),
		httpserver.WithShutdownTimeout(50*time.Millisecond),
		httpserver.WithStartHook(func(*slog.Logger) { close(ready) }),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), http.NewServeMux()) }()
	<-ready

	assert.Equal(t, addr, hs.Addr)
	// A timeout already set on the supplied server wins over the option.
	assert.Equal(t, 7*time.Second, hs.ReadTimeout)
	assert.Equal(t, 2*time.Second, hs.WriteTimeout)
	assert.Equal(t, 3*time.Second, hs.IdleTimeout)
	assert.NotNil(t, hs.Handler)

	require.NoError(t, srv.Shutdown(context.Background()))
	awaitRun(t, done)
}

func TestServer_StopsOnSignal(t *testing.T) {
	t.Parallel()

	addr := listenAddr(t)
	srv := httpserver.New(
		httpserver.WithAddr(addr),
		httpserver.WithShutdownTimeout(50*time.Millisecond),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), http.NewServeMux()) }()
	waitReachable(t, addr)

	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, p.Signal(syscall.SIGTERM))

	awaitRun(t, done)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	addr := listenAddr(t)
	hs := &http.Server{}
	ready := make(chan struct{})
	srv := httpserver.NewFromConfig(
		httpserver.Config{
			Addr:            addr,
			ReadTimeout:     4 * time.Second,
			WriteTimeout:    5 * time.Second,
			IdleTimeout:     6 * time.Second,
			ShutdownTimeout: 50 * time.Millisecond,
		},
		httpserver.WithServer(hs),
		httpserver.WithStartHook(func(*slog.Logger) { close(ready) }),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), nil) }()
	<-ready

	assert.Equal(t, addr, hs.Addr)
	assert.Equal(t, 4*time.Second, hs.ReadTimeout)
	assert.Equal(t, 5*time.Second, hs.WriteTimeout)
	assert.Equal(t, 6*time.Second, hs.IdleTimeout)

	require.NoError(t, srv.Shutdown(context.Background()))
	awaitRun(t, done)
}

func TestOptionValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"empty addr", func() { httpserver.WithAddr("") }},
		{"negative read timeout", func() { httpserver.WithReadTimeout(-time.Second) }},
		{"negative write timeout", func() { httpserver.WithWriteTimeout(-time.Second) }},
		{"negative idle timeout", func() { httpserver.WithIdleTimeout(-time.Second) }},
		{"negative shutdown timeout", func() { httpserver.WithShutdownTimeout(-time.Second) }},
		{"nil server", func() { httpserver.WithServer(nil) }},
		{"nil start hook", func() { httpserver.WithStartHook(nil) }},
		{"nil stop hook", func() { httpserver.WithStopHook(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, tt.fn)
		})
	}

	t.Run("nil logger tolerated", func(t *testing.T) {
		t.Parallel()
		assert.NotPanics(t, func() { httpserver.WithLogger(nil) })
	})
}
