package runner

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Latencies are recorded in microseconds, up to one minute.
const maxTrackableMicros = 60_000_000

type LatencyStats struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P90   time.Duration
	P99   time.Duration
}

type latencyRecorder struct {
	histogram *hdrhistogram.Histogram
}

func newLatencyRecorder() *latencyRecorder {
	return &latencyRecorder{
		histogram: hdrhistogram.New(1, maxTrackableMicros, 3),
	}
}

func (l *latencyRecorder) record(d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	if us > maxTrackableMicros {
		us = maxTrackableMicros
	}
	_ = l.histogram.RecordValue(us)
}

func (l *latencyRecorder) stats() LatencyStats {
	if l.histogram.TotalCount() == 0 {
		return LatencyStats{}
	}
	micros := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return LatencyStats{
		Count: l.histogram.TotalCount(),
		Min:   micros(l.histogram.Min()),
		Max:   micros(l.histogram.Max()),
		Mean:  time.Duration(l.histogram.Mean() * float64(time.Microsecond)),
		P50:   micros(l.histogram.ValueAtQuantile(50)),
		P90:   micros(l.histogram.ValueAtQuantile(90)),
		P99:   micros(l.histogram.ValueAtQuantile(99)),
	}
}
