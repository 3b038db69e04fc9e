package markov

import (
	"io"
	"math/rand"
	"net"
)

// MarkovConn cuts writes short following a two state Markov chain:
// after a full write the next one is short with probability P, after a
// short write with probability Q. Short writes return io.ErrShortWrite
// together with the number of bytes actually written.
type MarkovConn struct {
	net.Conn
	P float64
	Q float64

	lastShort bool
}

// Wrap returns conn unchanged if both probabilities are zero.
func Wrap(conn net.Conn, p float64, q float64) net.Conn {
	if p == 0 && q == 0 {
		return conn
	}
	return &MarkovConn{
		Conn:      conn,
		P:         p,
		Q:         q,
		lastShort: false,
	}
}

func (mc *MarkovConn) Write(p []byte) (n int, err error) {
	var short bool
	if mc.lastShort {
		short = rand.Float64() < mc.Q
	} else {
		short = rand.Float64() < mc.P
	}
	mc.lastShort = short

	// a single byte can't be split
	if !short || len(p) < 2 {
		return mc.Conn.Write(p)
	}
	n, err = mc.Conn.Write(p[:len(p)/2])
	if err != nil {
		return n, err
	}
	return n, io.ErrShortWrite
}
