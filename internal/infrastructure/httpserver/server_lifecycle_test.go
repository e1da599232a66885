package httpserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartReturnsNilAfterGracefulShutdown(t *testing.T) {
	srv, _ := newTestServer(t)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	require.Eventually(t, func() bool {
		addr := srv.Echo().ListenerAddr()
		return addr != nil && addr.String() != ""
	}, 5*time.Second, 10*time.Millisecond, "server never started listening")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err, "a shutdown-closed server is not a start failure")
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
