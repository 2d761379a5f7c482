package spline

import "testing"

func TestBandwidthMaxFilterAppLimitedGuard(t *testing.T) {
	s := &State{BW: 5000}

	// A lower, app-limited sample must not lower the existing max.
	bandwidthEstimator{}.updateMaxFilter(s, Sample{Delivered: 1, IntervalUs: 10000, IsAppLimited: true})
	if s.BW != 5000 {
		t.Fatalf("app-limited sample lowered bw filter from 5000 to %d", s.BW)
	}
}

func TestBandwidthMaxFilterAppLimitedCanRaise(t *testing.T) {
	s := &State{BW: 100}
	bandwidthEstimator{}.updateMaxFilter(s, Sample{Delivered: 1_000_000, IntervalUs: 1, IsAppLimited: true})
	if s.BW <= 100 {
		t.Fatalf("app-limited sample exceeding the max must still raise it, got %d", s.BW)
	}
}

func TestBandwidthInvalidSampleSkipsFilter(t *testing.T) {
	s := &State{BW: 42}
	bandwidthEstimator{}.updateMaxFilter(s, Sample{Delivered: -1, IntervalUs: 1000})
	if s.BW != 42 {
		t.Fatal("negative delivered must be treated as invalid and skip the bw update")
	}
	bandwidthEstimator{}.updateMaxFilter(s, Sample{Delivered: 10, IntervalUs: 0})
	if s.BW != 42 {
		t.Fatal("interval_us<=0 must leave bandwidth unchanged")
	}
}

func TestAckDrivenBandwidthFloorsAtMinBW(t *testing.T) {
	s := &State{CurrAck: 0, LastMinRTT: minRTTUs}
	got := bandwidthEstimator{}.ackDrivenBandwidth(s)
	if got < minBW {
		t.Fatalf("ack-driven bandwidth %d below MIN_BW (%d)", got, minBW)
	}
}

func TestMaxBWTrustsOnlyFilteredAboveLossThreshold(t *testing.T) {
	s := &State{BW: 1000, ackDrivenBW: 50000, LossCnt: 50}
	if got := (bandwidthEstimator{}).maxBW(s); got != 1000 {
		t.Fatalf("maxBW with loss_cnt>=50 should trust only the filtered bw, got %d", got)
	}

	s.LossCnt = 0
	if got := (bandwidthEstimator{}).maxBW(s); got != 50000 {
		t.Fatalf("maxBW below the loss threshold should prefer the larger value, got %d", got)
	}
}

func TestNewRoundDetection(t *testing.T) {
	s := &State{Delivered: 100}
	reads := HostReads{MSS: minSegmentSize, Delivered: 20}
	bandwidthEstimator{}.update(s, Sample{PriorDelivered: 150, Delivered: 5, IntervalUs: 1000}, reads)

	if !s.RoundStart {
		t.Fatal("prior_delivered >= state.delivered must start a new round")
	}
	if s.RTTCnt != 1 {
		t.Fatalf("rtt_cnt = %d, want 1", s.RTTCnt)
	}
	if s.Delivered != 20*minSegmentSize {
		t.Fatalf("delivered = %d, want tp.delivered*MIN_SEGMENT_SIZE", s.Delivered)
	}
}
