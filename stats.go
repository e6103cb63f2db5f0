package main

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Android-RU/Android-Logcat-Parser/record"
)

// pipelineStats is a container for collecting statistics about lines moving
// through the pipeline. It counts interesting aspects of what it sees and
// presents them for printing whenever it's called.
//
// the intent is to periodically print and flush the counters, eg once/minute

type pipelineStats struct {
	lock *sync.Mutex

	lines      int
	parseSkips int
	filtered   int
	emitted    int
	byLevel    map[string]int
	lastRecord *record.Record

	totalLines   int
	totalEmitted int
}

// newPipelineStats initializes the struct's complex data types
func newPipelineStats() *pipelineStats {
	p := &pipelineStats{}
	p.lock = &sync.Mutex{}
	p.reset()
	return p
}

// countLine records one raw line pulled from the source
func (p *pipelineStats) countLine() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.lines++
}

// countParseSkip records a line that matched no grammar and was dropped
func (p *pipelineStats) countParseSkip() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.parseSkips++
}

// countFiltered records a parsed record rejected by the filter chain
func (p *pipelineStats) countFiltered() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.filtered++
}

// countEmitted records a record delivered to the sinks
func (p *pipelineStats) countEmitted(rec *record.Record) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.emitted++
	p.byLevel[rec.Level.String()]++
	p.lastRecord = rec
}

// log the current stats and reset them all to zero.
// thread safe.
func (p *pipelineStats) logAndReset() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.log()
	p.reset()
}

// log the current statistics to logrus.
// NOT thread safe.
func (p *pipelineStats) log() {
	logrus.WithFields(logrus.Fields{
		"lines":           p.lines,
		"lifetime_lines":  p.totalLines + p.lines,
		"parse_skips":     p.parseSkips,
		"filtered_out":    p.filtered,
		"emitted":         p.emitted,
		"count_per_level": p.byLevel,
	}).Info("Summary of processed lines")
	if p.lastRecord != nil {
		logrus.WithFields(logrus.Fields{
			"tag": p.lastRecord.Tag,
			"ts":  p.lastRecord.TsISO,
		}).Info("Last emitted record")
	}
}

// logFinal logs the lifetime totals on their own
func (p *pipelineStats) logFinal() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.totalLines += p.lines
	p.totalEmitted += p.emitted
	logrus.WithFields(logrus.Fields{
		"total_lines":   p.totalLines,
		"total_emitted": p.totalEmitted,
	}).Debug("Total lines processed")
}

// reset the counters to zero.
// NOT thread safe
func (p *pipelineStats) reset() {
	p.totalLines += p.lines
	p.totalEmitted += p.emitted
	p.lines = 0
	p.parseSkips = 0
	p.filtered = 0
	p.emitted = 0
	p.byLevel = make(map[string]int)
}

// logStats dumps and resets the stats once every interval seconds
func logStats(stats *pipelineStats, interval uint) {
	if interval == 0 {
		// interval of 0 means don't print summary status
		return
	}
	logrus.Debugf("Initializing stats reporting. Will print stats once/%d seconds", interval)
	ticker := time.NewTicker(time.Second * time.Duration(interval))
	for range ticker.C {
		stats.logAndReset()
	}
}
