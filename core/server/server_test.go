package server_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/server"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func waitForServer(t *testing.T, addr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server at %s did not come up", addr)
}

func TestServerStartStop(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	srv := server.New(addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "ok")
		}))
	}()

	waitForServer(t, addr)

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	err = <-done
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, srv.Stop())
}

func TestServerDoubleStart(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	srv := server.New(addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go srv.Start(ctx, http.NewServeMux())
	waitForServer(t, addr)

	err := srv.Start(ctx, http.NewServeMux())
	assert.ErrorIs(t, err, server.ErrServerAlreadyRunning)

	cancel()
	require.NoError(t, srv.Stop())
}

func TestShutdownHooks(t *testing.T) {
	t.Parallel()

	t.Run("run in order after shutdown", func(t *testing.T) {
		t.Parallel()

		addr := freeAddr(t)
		var order []string
		srv := server.New(addr,
			server.WithShutdownHook(func(ctx context.Context) error {
				order = append(order, "first")
				return nil
			}),
			server.WithShutdownHook(func(ctx context.Context) error {
				order = append(order, "second")
				return nil
			}),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go srv.Start(ctx, http.NewServeMux())
		waitForServer(t, addr)

		require.NoError(t, srv.Stop())
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("hook failure surfaces but later hooks still run", func(t *testing.T) {
		t.Parallel()

		addr := freeAddr(t)
		hookErr := errors.New("archive write failed")
		var ran bool
		srv := server.New(addr,
			server.WithShutdownHook(func(ctx context.Context) error { return hookErr }),
			server.WithShutdownHook(func(ctx context.Context) error {
				ran = true
				return nil
			}),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go srv.Start(ctx, http.NewServeMux())
		waitForServer(t, addr)

		assert.ErrorIs(t, srv.Stop(), hookErr)
		assert.True(t, ran)
	})

	t.Run("stop without start is a no-op", func(t *testing.T) {
		t.Parallel()

		var ran bool
		srv := server.New(freeAddr(t), server.WithShutdownHook(func(ctx context.Context) error {
			ran = true
			return nil
		}))
		require.NoError(t, srv.Stop())
		assert.False(t, ran)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing address", func(t *testing.T) {
		t.Parallel()

		_, err := server.NewFromConfig(server.Config{})
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})

	t.Run("defaults build", func(t *testing.T) {
		t.Parallel()

		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, srv)
	})

	t.Run("bad TLS files", func(t *testing.T) {
		t.Parallel()

		cfg := server.DefaultConfig()
		cfg.TLSCertFile = "missing.crt"
		cfg.TLSKeyFile = "missing.key"
		_, err := server.NewFromConfig(cfg)
		assert.Error(t, err)
	})
}
