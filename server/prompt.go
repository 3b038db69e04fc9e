package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

const TriggerPrompt = "Press Enter to trigger update: "

// ErrNoTrigger means the input ended before an empty line was entered.
var ErrNoTrigger = errors.New("input closed before the update was triggered")

// WaitForTrigger prompts on out until an empty line is read from in.
func WaitForTrigger(in io.Reader, out io.Writer) error {
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		logrus.WithField("input", f.Name()).Warn("input is not a terminal, waiting for an empty line anyway")
	}
	r := bufio.NewReader(in)
	for {
		fmt.Fprint(out, TriggerPrompt)
		line, err := r.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return ErrNoTrigger
			}
			return fmt.Errorf("error reading input: %w", err)
		}
		if strings.TrimRight(line, "\r\n") == "" {
			return nil
		}
	}
}
