// Package adb implements the live line source: it spawns the platform's adb
// binary in logcat mode and streams its stdout line by line.
package adb

import (
	"bufio"
	"context"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

type Options struct {
	Serial string `long:"serial" description:"Device serial number, passed to adb as -s"`
	Path   string `long:"path" description:"Path to the adb executable" default:"adb"`
	Buffer string `long:"buffer" description:"Log buffer to read (main, system, events, radio, crash, all)" default:"main"`
	Clear  bool   `long:"clear" description:"Clear the selected buffer before streaming"`
}

// command builds the argv for "adb logcat" from the options. The -b flag is
// only appended for non-default buffers, mirroring adb's own default.
func command(opts Options, format string) []string {
	adb := opts.Path
	if adb == "" {
		adb = "adb"
	}
	cmd := []string{adb}
	if opts.Serial != "" {
		cmd = append(cmd, "-s", opts.Serial)
	}
	cmd = append(cmd, "logcat", "-v", format)
	if opts.Buffer != "" && opts.Buffer != "main" {
		cmd = append(cmd, "-b", opts.Buffer)
	}
	return cmd
}

// ClearBuffer runs "adb logcat ... -c" to drop everything already in the
// selected buffer. A failed clear is reported but not fatal; streaming still
// proceeds.
func ClearBuffer(ctx context.Context, opts Options, format string) {
	argv := append(command(opts, format), "-c")
	logrus.WithFields(logrus.Fields{"cmd": strings.Join(argv, " ")}).Debug(
		"clearing logcat buffer")
	if err := exec.CommandContext(ctx, argv[0], argv[1:]...).Run(); err != nil {
		logrus.WithFields(logrus.Fields{"err": err}).Warn(
			"failed to clear logcat buffer")
	}
}

// GetLines launches adb logcat and returns a channel carrying its stdout
// lines with trailing terminators stripped. Launch failure (e.g. a missing
// adb binary) surfaces here; once running, the channel closes when the
// process exits or the context is canceled.
func GetLines(ctx context.Context, opts Options, format string) (chan string, error) {
	argv := command(opts, format)
	logrus.WithFields(logrus.Fields{"cmd": strings.Join(argv, " ")}).Debug(
		"starting adb logcat")

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- strings.TrimRight(scanner.Text(), "\r")
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			logrus.WithFields(logrus.Fields{"err": err}).Warn(
				"error reading adb output")
		}
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			logrus.WithFields(logrus.Fields{"err": err}).Debug(
				"adb exited")
		}
	}()
	return lines, nil
}
