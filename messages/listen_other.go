//go:build !unix

package messages

import (
	"context"
	"net"
	"strconv"
)

// Without the unix socket calls the backlog is left to the runtime and
// SO_REUSEADDR keeps its platform default.
func listenTCP4(ctx context.Context, port int, backlog int) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp4", net.JoinHostPort("", strconv.Itoa(port)))
}
