package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad input").Build(), expected: 2},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "broken links", err: NewError(CategoryLinks, "broken").Build(), expected: 9},
		{name: "filesystem", err: FileSystemError(stderrors.New("eacces"), "write").Build(), expected: 11},
		{name: "wrapped build", err: fmt.Errorf("stage blog: %w", BuildError("failed").Build()), expected: 11},
		{name: "internal", err: NewError(CategoryInternal, "bug").Build(), expected: 10},
		{name: "unclassified", err: stderrors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := FileSystemError(cause, "write page").Build()

	quiet := NewCLIErrorAdapter(false, slog.Default())
	require.Equal(t, "Error: write page: permission denied", quiet.FormatError(err))

	verbose := NewCLIErrorAdapter(true, slog.Default())
	require.Equal(t, "Error: [filesystem] write page: permission denied", verbose.FormatError(err))

	require.Equal(t, "Error: plain", quiet.FormatError(stderrors.New("plain")))
	require.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(false, logger)
	adapter.out = &out

	code := adapter.Report(ConfigError("unknown key").WithContext("file", "sitebuilder.yaml").Build())

	require.Equal(t, 7, code)
	require.Equal(t, "Error: unknown key\n", out.String())
	require.Contains(t, logs.String(), "category=config")
	require.Contains(t, logs.String(), "file=sitebuilder.yaml")
}
