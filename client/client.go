package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"fwpush/messages"
)

// RecvBufferSize is how much the device reads at once.
const RecvBufferSize = 4 * 256

type Config struct {
	// wait between two connection attempts
	RetryInterval time.Duration
	// close the connection once this many bytes are stored, 0 means never
	StopAfter int64
	// log progress every ProgressEvery segments, 0 disables it
	ProgressEvery int
	Log           *logrus.Entry
}

var DefaultConfig = Config{
	RetryInterval: 10 * time.Second,
	StopAfter:     0,
	ProgressEvery: 10,
}

// Download behaves like the firmware's download task: it connects to the
// pusher at address:port, retrying until ctx is done, stores everything
// it receives in sink and answers each segment with messages.ReadyMessage.
// It returns the number of bytes stored once the pusher closes the
// connection.
func Download(ctx context.Context, address string, port int, sink io.Writer, config *Config) (int64, error) {
	if config == nil {
		config = &DefaultConfig
	}
	log := config.Log
	if log == nil {
		log = logrus.WithField("component", "device")
	}

	conn, err := connect(ctx, address, port, config.RetryInterval, log)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	log.WithField("server", conn.RemoteAddr()).Info("connected")

	return receive(conn, sink, config, log)
}

func connect(ctx context.Context, address string, port int, retry time.Duration, log *logrus.Entry) (net.Conn, error) {
	for {
		conn, err := messages.CreateClientSocket(ctx, address, port)
		if err == nil {
			return conn, nil
		}
		log.WithError(err).Debug("connect failed")
		if retry <= 0 {
			return nil, fmt.Errorf("connect: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect: %w", ctx.Err())
		case <-time.After(retry):
			log.Info("retrying connecting to the server")
		}
	}
}

func receive(conn net.Conn, sink io.Writer, config *Config, log *logrus.Entry) (int64, error) {
	var stored int64
	counter := 0
	buf := make([]byte, RecvBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if _, werr := sink.Write(buf[:n]); werr != nil {
				return stored, fmt.Errorf("store segment at offset %d: %w", stored, werr)
			}
			stored += int64(n)
			if config.StopAfter > 0 && stored >= config.StopAfter {
				log.WithField("bytes", stored).Info("stopping download early")
				return stored, nil
			}
			if serr := messages.SendAll(conn, []byte(messages.ReadyMessage)); serr != nil {
				return stored, serr
			}
			counter++
			if config.ProgressEvery > 0 && counter%config.ProgressEvery == 0 {
				log.WithField("bytes", stored).Info("downloaded")
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.WithField("bytes", stored).Info("connection closed")
				return stored, nil
			}
			return stored, fmt.Errorf("receive: %w", err)
		}
	}
}
