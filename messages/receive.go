package messages

import (
	"fmt"
	"io"
)

// ReceiveAck reads the answer to a chunk, up to MaxRecvDataSize-1 bytes.
// A read of zero bytes means the peer is gone and yields ErrPeerClosed.
func ReceiveAck(r io.Reader) ([]byte, error) {
	buf := make([]byte, MaxRecvDataSize-1)
	n, err := r.Read(buf)
	if n > 0 {
		// data first, a trailing EOF shows up on the next read
		return buf[:n], nil
	}
	if err == nil || err == io.EOF {
		return nil, ErrPeerClosed
	}
	return nil, fmt.Errorf("error receiving ack: %w", err)
}
