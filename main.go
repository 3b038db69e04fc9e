package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"fwpush/server"
)

const defaultBinaryPath = "./build/example_app/example_app.bin"

var (
	app         = kingpin.New("fwpush", "Run TCP server, wait for connection and send new firmware file to connected device.")
	binaryFile  = app.Flag("binary-file", "Path to the firmware file to be sent (*.bin).").Short('b').Default(defaultBinaryPath).Envar("FWPUSH_BINARY_FILE").String()
	port        = app.Flag("port", "TCP server port.").Short('p').Default("3490").Envar("FWPUSH_PORT").Int()
	logLevel    = app.Flag("log-level", "Diagnostics log level (debug, info, warn, error).").Default("info").Envar("FWPUSH_LOG_LEVEL").Enum("debug", "info", "warn", "error")
	shortWriteP = app.Flag("short-write-p", "Probability of a short write after a full one, for testing device reassembly.").Hidden().Default("0").Float64()
	shortWriteQ = app.Flag("short-write-q", "Probability of a short write after a short one.").Hidden().Default("0").Float64()
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	if _, err := app.Parse(args); err != nil {
		fmt.Fprintf(stdout, "error: %v\n", err)
		return 1
	}
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(stdout, "error: %v\n", err)
		return 1
	}
	logrus.SetLevel(level)

	fmt.Fprintf(stdout, "Using binary path: %s\n", *binaryFile)
	fmt.Fprintf(stdout, "Using port: %d\n", *port)

	s, err := server.Init(*port, *binaryFile, *shortWriteP, *shortWriteQ)
	if err != nil {
		fmt.Fprintf(stdout, "error: %v\n", err)
		return 1
	}
	s.Out = stdout

	if err := s.Listen(); err != nil {
		fmt.Fprintf(stdout, "Error accepting connection: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "Waiting for connections...")

	conn, err := s.AcceptOne()
	if err != nil {
		fmt.Fprintf(stdout, "Error accepting connection: %v\n", err)
		return 1
	}
	defer conn.Close()
	fmt.Fprintf(stdout, "Got connection from %s\n", conn.RemoteAddr())

	if err := server.WaitForTrigger(stdin, stdout); err != nil {
		fmt.Fprintf(stdout, "\nError waiting for trigger: %v\n", err)
		return 1
	}

	if _, err := s.Push(conn); err != nil {
		var oerr *server.OpenError
		if errors.As(err, &oerr) {
			fmt.Fprintf(stdout, "Error opening %s: %v\n", oerr.Path, oerr.Err)
		} else {
			fmt.Fprintf(stdout, "Error sending %s: %v\n", *binaryFile, err)
		}
		return 1
	}

	fmt.Fprintf(stdout, "Closing %s\n", *binaryFile)
	return 0
}
