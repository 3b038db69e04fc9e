package messages

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// CreateServerSocket listens on all IPv4 interfaces at port with
// SO_REUSEADDR set and the given listen backlog.
func CreateServerSocket(ctx context.Context, port int, backlog int) (net.Listener, error) {
	l, err := listenTCP4(ctx, port, backlog)
	if err != nil {
		return nil, fmt.Errorf("error creating listener: %w", err)
	}
	return l, nil
}

func CreateClientSocket(ctx context.Context, address string, port int) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("error dialing to server: %w", err)
	}
	return conn, nil
}
