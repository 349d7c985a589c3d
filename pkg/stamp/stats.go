package stamp

import (
	"fmt"
	"math"

	"github.com/codahale/hdrhistogram"
	"github.com/skypies/util/histogram"
)

// RunStats keeps track of how a run is going, across frames.
type RunStats struct {
	Found, Missed int

	latency   *hdrhistogram.Histogram // microseconds per candidate
	residuals histogram.Histogram     // plane fit RMS, milliradians
}

func NewRunStats() *RunStats {
	return &RunStats{
		latency:   hdrhistogram.New(1, 60*1000*1000, 3),
		residuals: histogram.Histogram{NumBuckets: 50, ValMin: 0, ValMax: 500},
	}
}

func (s *RunStats) Add(r Result) {
	us := r.Duration.Microseconds()
	if us < 1 {
		us = 1
	}
	s.latency.RecordValue(us)

	if !r.Found {
		s.Missed++
		return
	}
	s.Found++
	for _, res := range []float64{r.Residual1, r.Residual2} {
		if !math.IsNaN(res) {
			s.residuals.Add(histogram.ScalarVal(int(res * 1000)))
		}
	}
}

func (s *RunStats) LatencyQuantile(q float64) int64 {
	return s.latency.ValueAtQuantile(q)
}

func (s *RunStats) String() string {
	str := fmt.Sprintf("RunStats[found %d, missed %d]\n", s.Found, s.Missed)
	str += fmt.Sprintf("  latency(us): p50=%d p90=%d p99=%d max=%d\n",
		s.latency.ValueAtQuantile(50), s.latency.ValueAtQuantile(90), s.latency.ValueAtQuantile(99), s.latency.Max())
	str += fmt.Sprintf("  fit residuals(mrad): %v\n", &s.residuals)
	return str
}
