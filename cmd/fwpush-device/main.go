package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"fwpush/client"
)

var (
	host      = kingpin.Flag("host", "Host running fwpush.").Default("127.0.0.1").String()
	port      = kingpin.Flag("port", "TCP port of fwpush.").Short('p').Default("3490").Int()
	out       = kingpin.Flag("out", "Where to store the received firmware.").Short('o').Default("downloaded.bin").String()
	stopAfter = kingpin.Flag("stop-after", "Close the connection after this many bytes (0 = never).").Default("0").Int64()
	retry     = kingpin.Flag("retry", "Wait between connection attempts.").Default("10s").Duration()
	verbose   = kingpin.Flag("verbose", "Log every connection attempt.").Short('v').Bool()
)

func main() {
	kingpin.Parse()
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	config := client.DefaultConfig
	config.RetryInterval = *retry
	config.StopAfter = *stopAfter

	start := time.Now()
	n, err := save(ctx, *host, *port, f, &config)
	stop()
	if err != nil {
		fmt.Printf("Download failed after %d bytes: %v\n", n, err)
		os.Exit(1)
	}
	fmt.Printf("Downloaded %d bytes to %s in %v\n", n, *out, time.Since(start).Round(time.Millisecond))
}

// save downloads into w and closes it. A failed close is reported like a
// failed download, the image on disk may be incomplete.
func save(ctx context.Context, host string, port int, w io.WriteCloser, config *client.Config) (int64, error) {
	n, err := client.Download(ctx, host, port, w, config)
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("error closing output: %w", cerr)
	}
	return n, err
}
