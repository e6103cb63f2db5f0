// Package tail implements the file line source.
//
// tail provides a channel on which log lines will be sent as string
// messages. One line in the log file is one message on the channel. In
// non-follow mode the channel closes at end of file; in follow mode the
// tailer keeps waiting for appended lines (and survives rotation) until the
// context is canceled.
package tail

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Follow bool `long:"follow" description:"Keep the file open and wait for newly appended lines instead of stopping at EOF. Only valid with --input."`
	Poll   bool `long:"poll" description:"Use polling instead of inotify to watch the followed file"`
}

type Config struct {
	// Path to the log file to read, or "-" for STDIN
	Path string
	// Tail specific options
	Options Options
}

// GetLines opens the configured file and returns a channel carrying its
// lines. Trailing line terminators are stripped. A missing or unreadable
// file surfaces here, before any line is delivered.
func GetLines(ctx context.Context, conf Config) (chan string, error) {
	if conf.Path == "-" {
		return tailStdIn(), nil
	}

	tailer, err := getTailer(conf)
	if err != nil {
		return nil, err
	}

	lines := make(chan string)
	go func() {
		<-ctx.Done()
		// unblocks the tailer; its Lines channel closes shortly after
		tailer.Stop()
	}()
	go func() {
		for line := range tailer.Lines {
			if line.Err != nil {
				// skip errored lines
				logrus.WithFields(logrus.Fields{
					"file": conf.Path, "err": line.Err,
				}).Debug("skipping errored line from tailer")
				continue
			}
			lines <- strings.TrimRight(line.Text, "\r\n")
		}
		close(lines)
	}()
	return lines, nil
}

// getTailer configures the *tail.Tail to read the file from the beginning,
// either stopping at EOF or following, per the options.
func getTailer(conf Config) (*tail.Tail, error) {
	tailConf := tail.Config{
		MustExist: true,                // fail if log file doesn't exist
		Follow:    conf.Options.Follow, // don't stop at EOF, aka tail -f
		ReOpen:    conf.Options.Follow, // keep reading on rotation, aka tail -F
		Poll:      conf.Options.Poll,   // use poll instead of inotify
		Logger:    tail.DiscardingLogger,
	}
	logrus.WithFields(logrus.Fields{
		"tailConf": tailConf,
		"file":     conf.Path,
	}).Debug("about to call tail.TailFile")
	return tail.TailFile(conf.Path, tailConf)
}

// tailStdIn is a special case to read STDIN without any of the fancy stuff
// that the tail module provides
func tailStdIn() chan string {
	lines := make(chan string)
	input := bufio.NewReader(os.Stdin)
	go func() {
		defer close(lines)
		for {
			line, partialLine, err := input.ReadLine()
			if err != nil {
				logrus.Debug("stdin is closed")
				// bail when STDIN closes
				return
			}
			var parts []string
			parts = append(parts, string(line))
			for partialLine {
				line, partialLine, _ = input.ReadLine()
				parts = append(parts, string(line))
			}
			lines <- strings.Join(parts, "")
		}
	}()
	return lines
}
