//go:build linux

package server

import (
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Linux keeps at most backlog+1 finished handshakes waiting for accept and
// drops further SYNs, so extra dials time out.
func TestListenBacklogLimitsQueue(t *testing.T) {
	s, err := Init(0, "fw.bin", 0, 0)
	require.NoError(t, err)
	s.Out = io.Discard
	s.Backlog = 2
	require.NoError(t, s.Listen())
	defer s.Close()
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(s.Addr().(*net.TCPAddr).Port))

	queued := 0
	for i := 0; i < 6; i++ {
		conn, err := net.DialTimeout("tcp", addr, 300*time.Millisecond)
		if err != nil {
			continue
		}
		defer conn.Close()
		queued++
	}
	assert.GreaterOrEqual(t, queued, s.Backlog)
	assert.LessOrEqual(t, queued, s.Backlog+1)
}
