package adb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	for _, tc := range []struct {
		name     string
		opts     Options
		format   string
		expected []string
	}{
		{
			name:     "defaults",
			opts:     Options{Path: "adb", Buffer: "main"},
			format:   "threadtime",
			expected: []string{"adb", "logcat", "-v", "threadtime"},
		},
		{
			name:     "empty path falls back to adb",
			opts:     Options{Buffer: "main"},
			format:   "threadtime",
			expected: []string{"adb", "logcat", "-v", "threadtime"},
		},
		{
			name:     "serial",
			opts:     Options{Path: "adb", Serial: "emulator-5554", Buffer: "main"},
			format:   "time",
			expected: []string{"adb", "-s", "emulator-5554", "logcat", "-v", "time"},
		},
		{
			name:     "non-default buffer",
			opts:     Options{Path: "/opt/sdk/adb", Buffer: "radio"},
			format:   "epoch",
			expected: []string{"/opt/sdk/adb", "logcat", "-v", "epoch", "-b", "radio"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, command(tc.opts, tc.format))
		})
	}
}

func TestGetLinesMissingExecutable(t *testing.T) {
	_, err := GetLines(context.Background(), Options{
		Path:   "/nonexistent/adb",
		Buffer: "main",
	}, "threadtime")
	assert.Error(t, err)
}

// substituting echo for adb exercises the stream plumbing without a device
// attached: the spawned process prints its arguments and exits, and the
// channel must deliver that output and then close
func TestGetLinesStreamsProcessOutput(t *testing.T) {
	lines, err := GetLines(context.Background(), Options{
		Path:   "/bin/echo",
		Buffer: "main",
	}, "threadtime")
	require.NoError(t, err)

	var got []string
	for line := range lines {
		got = append(got, line)
	}
	require.Len(t, got, 1)
	assert.Equal(t, "logcat -v threadtime", got[0])
}
