// Package metrics exposes spline connection state through HDR histograms
// and Prometheus gauges/counters, adapted from the HDR/Prometheus split the
// teacher repo uses for its own QUIC test metrics.
package metrics

import (
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// HDRState holds the histograms used to summarise a run of spline samples:
// RTT, the sample-bandwidth estimate, and the emitted pacing rate.
type HDRState struct {
	mu sync.RWMutex

	rttHist       *hdrhistogram.Histogram
	bandwidthHist *hdrhistogram.Histogram
	pacingHist    *hdrhistogram.Histogram

	samples     int64
	lossEvents  int64
	drainEvents int64
}

// NewHDRState builds the histogram set. Ranges are sized for the contract
// constants in internal/spline/const.go: microsecond RTT up to 30s, and
// bandwidth and pacing values up to 1.25e9 (10 Gbit/s for a byte/sec rate).
func NewHDRState() *HDRState {
	return &HDRState{
		rttHist:       hdrhistogram.New(1, 30_000_000, 3),
		bandwidthHist: hdrhistogram.New(1, 1_250_000_000, 3),
		pacingHist:    hdrhistogram.New(1, 1_250_000_000, 3),
	}
}

// RecordRTT records a microsecond RTT sample.
func (h *HDRState) RecordRTT(rttUs uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rttUs > 0 {
		h.rttHist.RecordValue(int64(rttUs))
	}
}

// RecordBandwidth records a bandwidth estimate as given (cmd/splinesim
// passes spline.State.BW, in bw-units); values above the histogram's range
// are not recorded, but every call counts as a sample.
func (h *HDRState) RecordBandwidth(bps uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if bps > 0 {
		h.bandwidthHist.RecordValue(int64(bps))
	}
	h.samples++
}

// RecordPacingRate records the pacing rate installed for a step.
func (h *HDRState) RecordPacingRate(bps uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if bps > 0 {
		h.pacingHist.RecordValue(int64(bps))
	}
}

// RecordLoss tallies a sample that carried a loss signal.
func (h *HDRState) RecordLoss() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lossEvents++
}

// RecordDrain tallies a transition into the DRAIN phase.
func (h *HDRState) RecordDrain() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drainEvents++
}

// RTTStats is the quantile summary of the RTT histogram.
type RTTStats struct {
	P50, P90, P99 float64
	Min, Max      int64
	Count         int64
}

// RTTStats returns the current RTT quantile summary, in microseconds.
func (h *HDRState) RTTStats() RTTStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.rttHist.TotalCount() == 0 {
		return RTTStats{}
	}
	return RTTStats{
		P50:   float64(h.rttHist.ValueAtQuantile(50)),
		P90:   float64(h.rttHist.ValueAtQuantile(90)),
		P99:   float64(h.rttHist.ValueAtQuantile(99)),
		Min:   h.rttHist.Min(),
		Max:   h.rttHist.Max(),
		Count: h.rttHist.TotalCount(),
	}
}

// Counters is a snapshot of the event tallies.
type Counters struct {
	Samples     int64
	LossEvents  int64
	DrainEvents int64
}

// Counters returns the current event tallies.
func (h *HDRState) Counters() Counters {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Counters{Samples: h.samples, LossEvents: h.lossEvents, DrainEvents: h.drainEvents}
}
