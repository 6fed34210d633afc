package errors

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(verbose bool, out io.Writer, exit func(int)) *CLIErrorAdapter {
	a := NewCLIErrorAdapter(verbose, slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.out = out
	a.exit = exit
	return a
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, 0},
		{"usage", UsageError("missing --src").Build(), 2},
		{"validation", ValidationError("title required").Build(), 2},
		{"io", IOError("cannot read").Build(), 3},
		{"config", ConfigError("bad site.json").Build(), 4},
		{"unknown", UnknownError("panic").Build(), 1},
		{"unclassified", errors.New("plain"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)

	err := IOError("write failed").WithCause(errors.New("permission denied")).Build()
	assert.Equal(t, "Error: write failed: permission denied", quiet.FormatError(err))
	assert.Equal(t, "Error: [io] write failed: permission denied", verbose.FormatError(err))
	assert.Equal(t, "Error: title required", quiet.FormatError(ValidationError("title required").Build()))
	assert.Equal(t, "Error: plain", quiet.FormatError(errors.New("plain")))
	assert.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	code := -1
	adapter := newTestAdapter(false, &out, func(c int) { code = c })

	adapter.HandleError(ConfigError("bad site.json").Build())
	require.Equal(t, 4, code)
	assert.Equal(t, "Error: bad site.json\n", out.String())

	code = -1
	out.Reset()
	adapter.HandleError(nil)
	assert.Equal(t, -1, code)
	assert.Empty(t, out.String())
}
