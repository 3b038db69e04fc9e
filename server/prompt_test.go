package server

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForTrigger(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		prompts int
		err     error
	}{
		{name: "enter", input: "\n", prompts: 1},
		{name: "repeat once", input: "go\n\n", prompts: 2},
		{name: "crlf", input: "wait\r\n\r\n", prompts: 2},
		{name: "whitespace is not empty", input: " \n\n", prompts: 2},
		{name: "rest is left alone", input: "\nignored\n", prompts: 1},
		{name: "no input", input: "", prompts: 1, err: ErrNoTrigger},
		{name: "no newline", input: "go\nnow", prompts: 2, err: ErrNoTrigger},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := WaitForTrigger(strings.NewReader(tt.input), &out)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, strings.Repeat(TriggerPrompt, tt.prompts), out.String())
		})
	}
}

func TestWaitForTriggerReadError(t *testing.T) {
	boom := errors.New("tty gone")
	err := WaitForTrigger(iotest.ErrReader(boom), &bytes.Buffer{})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoTrigger)
}
