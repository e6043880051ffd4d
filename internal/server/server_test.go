package server

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/epokhe/rhino-rox/core"
)

// startTestServer runs a Server on an ephemeral TCP port and a Unix
// socket under a temp dir and returns both addresses, so tests can
// drive the real wire protocol with a real client rather than calling
// command handlers directly. Shutdown is registered with t.Cleanup.
func startTestServer(t *testing.T) (tcpAddr, unixAddr string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	tcpAddr = ln.Addr().String()
	require.NoError(t, ln.Close())

	unixAddr = filepath.Join(t.TempDir(), fmt.Sprintf("rhino-rox-%d.sock", rand.Int()))

	ks := core.NewKeyspace()
	srv := New(Config{TCPAddr: tcpAddr, UnixSocket: unixAddr}, ks, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not shut down in time")
		}
	})

	// give the listeners a moment to bind
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", tcpAddr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, time.Second, 10*time.Millisecond)

	return tcpAddr, unixAddr
}

func TestEndToEndTCP(t *testing.T) {
	tcpAddr, _ := startTestServer(t)
	exerciseClient(t, redis.NewClient(&redis.Options{Addr: tcpAddr}))
}

func TestEndToEndUnixSocket(t *testing.T) {
	_, unixAddr := startTestServer(t)
	exerciseClient(t, redis.NewClient(&redis.Options{Network: "unix", Addr: unixAddr}))
}

func exerciseClient(t *testing.T, client *redis.Client) {
	t.Helper()
	defer client.Close()
	ctx := context.Background()

	require.Equal(t, "PONG", client.Ping(ctx).Val())

	require.NoError(t, client.Do(ctx, "set", "foo", "bar").Err())
	require.Equal(t, "bar", client.Do(ctx, "get", "foo").Val())

	n, err := client.Do(ctx, "len").Int()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, client.Do(ctx, "rset", "trie", "apple", "2").Err())
	require.NoError(t, client.Do(ctx, "rset", "trie", "ape", "3").Err())
	rget, err := client.Do(ctx, "rget", "trie", "apple").Text()
	require.NoError(t, err)
	require.Equal(t, "2", rget)

	require.NoError(t, client.Do(ctx, "qpush", "q", "1", "v1").Err())
	require.NoError(t, client.Do(ctx, "qpush", "q", "0.5", "v2").Err())
	popped, err := client.Do(ctx, "qpop", "q").Text()
	require.NoError(t, err)
	require.Equal(t, "v2", popped)

	require.NoError(t, client.Do(ctx, "dset", "fts", "doc1", "the quick brown fox").Err())
	results, err := client.Do(ctx, "dsearch", "fts", "fox").Slice()
	require.NoError(t, err)
	require.Len(t, results, 2)

	_, err = client.Do(ctx, "nosuchcommand").Result()
	require.Error(t, err)
}
