//go:build unix

package messages

import (
	"context"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// net.ListenConfig has no way to pass the backlog, so the socket is set up
// by hand and handed to the net package afterwards.
func listenTCP4(_ context.Context, port int, backlog int) (net.Listener, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	unix.CloseOnExec(fd)

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("setsockopt SO_REUSEADDR", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port}); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("bind", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("listen", err)
	}

	// FileListener dups the descriptor, the original is closed with f
	f := os.NewFile(uintptr(fd), "tcp4-listener")
	defer f.Close()
	return net.FileListener(f)
}
