package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Feed replays recorded tilt samples, one per period. Each record is "x,y";
// lines starting with '#' and records that do not parse are skipped.
type Feed struct {
	samples []Sample
	period  time.Duration
}

// ParseFeed reads samples from r.
func ParseFeed(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var samples []Sample
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return samples, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("input: cannot read feed: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errX != nil || errY != nil {
			continue
		}
		samples = append(samples, Sample{X: x, Y: y})
	}
}

// OpenFeed loads a feed file.
func OpenFeed(path string, period time.Duration) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input: cannot open feed %s: %w", path, err)
	}
	defer f.Close()

	samples, err := ParseFeed(f)
	if err != nil {
		return nil, err
	}
	return NewFeed(samples, period), nil
}

// NewFeed creates a feed from in-memory samples.
func NewFeed(samples []Sample, period time.Duration) *Feed {
	return &Feed{samples: samples, period: period}
}

// Len returns the number of samples in the feed.
func (f *Feed) Len() int {
	return len(f.samples)
}

// Attach implements SampleSource. Delivery stops after the last sample.
func (f *Feed) Attach(sink SampleSink) (detach func()) {
	next := 0
	return poll(f.period, func(now time.Time) bool {
		if next >= len(f.samples) {
			return false
		}
		s := f.samples[next]
		s.At = now
		sink.OnSample(s)
		next++
		return next < len(f.samples)
	})
}

var _ SampleSource = (*Feed)(nil)
