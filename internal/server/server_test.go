package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/kvd/internal/client"
	"github.com/dotcommander/kvd/internal/dispatch"
	"github.com/dotcommander/kvd/internal/protocol"
	"github.com/dotcommander/kvd/internal/store"
)

// startServer runs a full engine+dispatcher+server stack on an ephemeral
// port and returns its address. Everything shuts down with the test.
func startServer(t *testing.T) string {
	t.Helper()

	engine := store.New()
	srv := New("127.0.0.1:0", dispatch.New(engine))

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reaper := store.NewReaper(engine, 100*time.Millisecond)
	go reaper.Run(ctx)
	go func() { _ = srv.Serve(ctx, l) }()

	return l.Addr().String()
}

func TestEndToEndCommands(t *testing.T) {
	addr := startServer(t)
	c := client.New(addr)

	pong, err := c.Ping()
	require.NoError(t, err)
	assert.Equal(t, "PONG", pong)

	// Round trip a structured value through JSON.
	doc := map[string]any{"name": "kvd", "count": float64(3)}
	require.NoError(t, c.Set("doc", doc, 0))
	got, err := c.Get("doc")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	// Absent key is a null result, not an error.
	got, err = c.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Counter lifecycle.
	n, err := c.Incr("counter", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = c.Incr("counter", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	n, err = c.Decr("counter")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	// TTL management.
	require.NoError(t, c.Set("temp", "v", 120))
	remaining, err := c.TTL("temp")
	require.NoError(t, err)
	assert.InDelta(t, 120, remaining, 1)
	require.NoError(t, c.Expire("temp", 300))
	remaining, err = c.TTL("temp")
	require.NoError(t, err)
	assert.InDelta(t, 300, remaining, 1)

	require.NoError(t, c.Delete("temp"))
	got, err = c.Get("temp")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEndToEndErrorsKeepSessionAlive(t *testing.T) {
	addr := startServer(t)
	c := client.New(addr)

	require.NoError(t, c.Set("s", "text", 0))

	_, err := c.Incr("s", 1)
	require.Error(t, err)
	var se *client.ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "provided key's value is not incrementable", se.Message)

	_, err = c.TTL("never-set")
	require.Error(t, err)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "key not found", se.Message)

	resp, err := c.Do(protocol.Request{Command: "WHAT"})
	require.Error(t, err)
	assert.Equal(t, protocol.StatusError, resp.Status)
	assert.Equal(t, "unknown command", resp.Result)

	// The bad commands above must not have poisoned anything.
	pong, err := c.Ping()
	require.NoError(t, err)
	assert.Equal(t, "PONG", pong)
}

func TestEndToEndExpiry(t *testing.T) {
	addr := startServer(t)
	c := client.New(addr)

	require.NoError(t, c.Set("blip", "v", 1))
	got, err := c.Get("blip")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.Eventually(t, func() bool {
		got, err := c.Get("blip")
		return err == nil && got == nil
	}, 3*time.Second, 100*time.Millisecond, "key with ttl=1 should expire")
}

func TestSessionHandlesManyRequestsPerConnection(t *testing.T) {
	addr := startServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	requests := []string{
		`{"command":"SET","args":{"key":"a","value":1}}`,
		`{"command":"INCR","args":{"key":"a"}}`,
		`{"command":"BOGUS"}`,
		`{"command":"GET","args":{"key":"a"}}`,
	}
	for _, raw := range requests {
		_, err := conn.Write([]byte(raw + "\n"))
		require.NoError(t, err)
	}

	// Responses come back one per line, in order, across the same session.
	reader := bufio.NewReader(conn)
	var responses []protocol.Response
	for range requests {
		line, err := reader.ReadBytes('\n')
		require.NoError(t, err)
		var resp protocol.Response
		require.NoError(t, json.Unmarshal(line, &resp))
		responses = append(responses, resp)
	}

	assert.Equal(t, protocol.StatusOK, responses[0].Status)
	assert.Equal(t, protocol.StatusOK, responses[1].Status)
	assert.Equal(t, float64(2), responses[1].Result)
	assert.Equal(t, protocol.StatusError, responses[2].Status)
	assert.Equal(t, protocol.StatusOK, responses[3].Status)
	assert.Equal(t, float64(2), responses[3].Result)
}
