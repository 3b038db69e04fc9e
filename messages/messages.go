package messages

import (
	"errors"
)

// There is no framing on the wire: the firmware image is written as raw
// bytes and the device answers with an arbitrary short message after
// every segment it has stored.

// size of the chunks read from the firmware file and written in one go
const ChunkSize = 1024

// MaxRecvDataSize bounds the ack read; at most MaxRecvDataSize-1 bytes are
// read after each chunk.
const MaxRecvDataSize = 100

// message the device sends when it is ready for the next chunk
const ReadyMessage = "Ready"

// ErrPeerClosed is returned by ReceiveAck when the peer closed the
// connection instead of answering.
var ErrPeerClosed = errors.New("peer closed the connection")

// Stats describes a finished (or aborted) transfer.
type Stats struct {
	Chunks    int
	BytesSent int64
	// the peer closed the connection before the file was exhausted
	PeerClosed bool
}

// Progress is called once per chunk, before the chunk is written.
// sent already includes the chunk.
type Progress func(chunkLen int, sent int64)
