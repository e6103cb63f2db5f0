// Package sinks provides the output writers accepted records are delivered
// to, and the fan-out that replicates each record across all of them.
//
// Every writer satisfies Sink. Close must be idempotent and safe to call on a
// sink that never received a Write, so the driver can run one unconditional
// close pass during shutdown.
package sinks

import (
	"github.com/sirupsen/logrus"

	"github.com/Android-RU/Android-Logcat-Parser/record"
)

// Sink is a single output writer.
type Sink interface {
	// Write emits one accepted record.
	Write(rec *record.Record) error
	// Close flushes and releases the sink. Idempotent.
	Close() error
}

// Fanout delivers each record to every registered sink in registration
// order. A failing sink does not stop delivery to, or closing of, the
// remaining sinks.
type Fanout struct {
	sinks []Sink
}

// Add registers a sink. Order of registration is the order of delivery.
func (f *Fanout) Add(s Sink) {
	f.sinks = append(f.sinks, s)
}

// Len reports the number of registered sinks.
func (f *Fanout) Len() int {
	return len(f.sinks)
}

// Write replicates rec to every sink. Per-sink write failures are logged and
// swallowed so one broken sink can't starve the others.
func (f *Fanout) Write(rec *record.Record) {
	for _, s := range f.sinks {
		if err := s.Write(rec); err != nil {
			logrus.WithFields(logrus.Fields{"sink": s, "err": err}).Warn(
				"sink write failed, continuing with remaining sinks")
		}
	}
}

// Close closes every sink, best-effort. All sinks get a Close attempt even
// when earlier ones fail; the first error is returned.
func (f *Fanout) Close() error {
	var firstErr error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil {
			logrus.WithFields(logrus.Fields{"sink": s, "err": err}).Warn(
				"sink close failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
