// Package telemetry writes periodic drizzle engine statistics as CSV.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/phanxgames/drizzle"
	"github.com/phanxgames/drizzle/config"
)

// Source provides the stats snapshot to record. *drizzle.Engine implements it.
type Source interface {
	Stats() drizzle.Stats
}

// Recorder appends one CSV row per sample. A nil *Recorder is valid and
// records nothing, so callers can leave telemetry disabled without checks.
type Recorder struct {
	w      io.Writer
	closer io.Closer
	dir    string

	headerWritten bool
	rows          int
	err           error
	timer         *drizzle.Timer
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Create makes dir and opens dir/stats.csv for recording. The engine
// configuration is saved next to it as config.yaml. Returns nil if dir is
// empty (output disabled).
func Create(dir string, cfg drizzle.Config) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Save(filepath.Join(dir, "config.yaml"), cfg); err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(dir, "stats.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	return &Recorder{w: f, closer: f, dir: dir}, nil
}

// Write appends s as one row. The header is written with the first row.
func (r *Recorder) Write(s drizzle.Stats) error {
	if r == nil {
		return nil
	}
	records := []drizzle.Stats{s}

	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}
	r.rows++
	return nil
}

// Every samples src each interval of clock time until Stop or Close. The
// first failed write stops sampling and is reported by Err.
func (r *Recorder) Every(clock *drizzle.FrameClock, interval time.Duration, src Source) {
	if r == nil || interval <= 0 {
		return
	}
	r.timer.Stop()
	var sample func()
	sample = func() {
		if err := r.Write(src.Stats()); err != nil {
			r.err = err
			r.timer = nil
			return
		}
		r.timer = clock.AfterFunc(interval, sample)
	}
	r.timer = clock.AfterFunc(interval, sample)
}

// Stop ends periodic sampling.
func (r *Recorder) Stop() {
	if r == nil {
		return
	}
	r.timer.Stop()
	r.timer = nil
}

// Rows returns the number of rows written.
func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}

// Err returns the write error that stopped periodic sampling, if any.
func (r *Recorder) Err() error {
	if r == nil {
		return nil
	}
	return r.err
}

// Dir returns the output directory, or "" for writer-backed recorders.
func (r *Recorder) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// Close stops sampling and closes the output file if the Recorder owns one.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.Stop()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
