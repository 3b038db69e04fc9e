package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"fwpush/markov"
	"fwpush/messages"
)

// DefaultBacklog is the listen backlog passed to listen(2).
const DefaultBacklog = 10

type Server struct {
	Port       int
	BinaryFile string
	Backlog    int

	// short write probabilities, both zero disables the Markov writer
	MarkovP float64
	MarkovQ float64

	// transcript output
	Out io.Writer
	Log *logrus.Entry

	listener net.Listener
}

// ConfigError reports an invalid value passed to Init.
type ConfigError struct {
	Field string
	Value interface{}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

// OpenError is returned by Push when the firmware file can't be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("error opening %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Init checks the configuration and returns a server that is not yet
// listening. Port 0 lets the kernel pick a port.
func Init(port int, binaryFile string, markovP float64, markovQ float64) (*Server, error) {
	if port < 0 || port > 65535 {
		return nil, &ConfigError{Field: "port", Value: port}
	}
	if binaryFile == "" {
		return nil, &ConfigError{Field: "binary file", Value: `""`}
	}
	// check that p and q are valid
	if markovP > 1 || markovP < 0 {
		return nil, &ConfigError{Field: "short write p", Value: markovP}
	}
	if markovQ > 1 || markovQ < 0 {
		return nil, &ConfigError{Field: "short write q", Value: markovQ}
	}

	s := new(Server)
	s.Port = port
	s.BinaryFile = binaryFile
	s.Backlog = DefaultBacklog
	s.MarkovP = markovP
	s.MarkovQ = markovQ
	s.Out = os.Stdout
	s.Log = logrus.WithField("component", "server")
	return s, nil
}

// Listen binds the listening socket on all interfaces.
func (s *Server) Listen() error {
	l, err := messages.CreateServerSocket(context.Background(), s.Port, s.Backlog)
	if err != nil {
		return fmt.Errorf("error listening on port %d: %w", s.Port, err)
	}
	s.listener = l
	s.Log.WithFields(logrus.Fields{"addr": l.Addr(), "backlog": s.Backlog}).Debug("listening")
	return nil
}

// Addr is the address of the listening socket, nil before Listen and
// after AcceptOne.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// AcceptOne waits for the device to connect and closes the listening
// socket right after, so no second connection is ever accepted.
func (s *Server) AcceptOne() (net.Conn, error) {
	if s.listener == nil {
		return nil, fmt.Errorf("accept before listen")
	}
	l := s.listener
	s.listener = nil

	conn, err := l.Accept()
	if cerr := l.Close(); cerr != nil {
		s.Log.WithError(cerr).Warn("closing listener")
	}
	if err != nil {
		return nil, fmt.Errorf("error accepting connection: %w", err)
	}
	s.Log.WithField("peer", conn.RemoteAddr()).Debug("accepted")
	return conn, nil
}

// Close releases the listening socket if AcceptOne was never called.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	s.listener = nil
	return err
}

// Push sends the firmware file over conn, printing a line per chunk. The
// file is closed before Push returns, conn is left open.
func (s *Server) Push(conn net.Conn) (messages.Stats, error) {
	f, err := os.Open(s.BinaryFile)
	if err != nil {
		return messages.Stats{}, &OpenError{Path: s.BinaryFile, Err: err}
	}
	defer f.Close()

	peer := conn.RemoteAddr()
	log := s.Log.WithFields(logrus.Fields{"peer": peer, "file": s.BinaryFile})

	stats, err := messages.StreamFile(markov.Wrap(conn, s.MarkovP, s.MarkovQ), f, func(n int, sent int64) {
		fmt.Fprintf(s.Out, "Sending %d bytes to %s: sent = %d bytes\n", n, peer, sent)
	})
	if err != nil {
		log.WithError(err).WithField("bytes", stats.BytesSent).Error("transfer aborted")
		return stats, fmt.Errorf("error sending %s to %s: %w", s.BinaryFile, peer, err)
	}
	if stats.PeerClosed {
		log.WithField("bytes", stats.BytesSent).Info("peer closed the connection before the end of the file")
	} else {
		log.WithFields(logrus.Fields{"bytes": stats.BytesSent, "chunks": stats.Chunks}).Debug("transfer complete")
	}
	return stats, nil
}
