package messages

import (
	"errors"
	"fmt"
	"io"
)

// SendAll writes the whole buffer to w. Short writes are retried as long as
// the writer makes progress.
func SendAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		p = p[n:]
		if err != nil {
			if errors.Is(err, io.ErrShortWrite) && n > 0 {
				continue
			}
			return fmt.Errorf("error sending data: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("error sending data: %w", io.ErrShortWrite)
		}
	}
	return nil
}

// StreamFile sends src over conn in chunks of ChunkSize bytes. After each
// chunk it waits for the peer to answer; the answer itself is ignored. The
// transfer ends when src is exhausted or when the peer closes the
// connection instead of answering, neither of which is an error.
func StreamFile(conn io.ReadWriter, src io.Reader, progress Progress) (Stats, error) {
	var stats Stats
	buf := make([]byte, ChunkSize)
	for {
		n, err := io.ReadFull(src, buf)
		if n == 0 {
			if err == nil || err == io.EOF {
				return stats, nil
			}
			return stats, fmt.Errorf("error reading chunk %d: %w", stats.Chunks, err)
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return stats, fmt.Errorf("error reading chunk %d: %w", stats.Chunks, err)
		}

		stats.BytesSent += int64(n)
		if progress != nil {
			progress(n, stats.BytesSent)
		}
		if err := SendAll(conn, buf[:n]); err != nil {
			stats.BytesSent -= int64(n)
			return stats, fmt.Errorf("chunk %d: %w", stats.Chunks, err)
		}
		stats.Chunks++

		if _, err := ReceiveAck(conn); err != nil {
			if errors.Is(err, ErrPeerClosed) {
				stats.PeerClosed = true
				return stats, nil
			}
			return stats, fmt.Errorf("chunk %d: %w", stats.Chunks-1, err)
		}
	}
}
