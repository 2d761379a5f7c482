package spline

// bandwidthEstimator computes the per-sample delivery rate, maintains the
// max-bw filter, and derives the ack-driven bandwidth and inflight
// throughput used by the fairness and gain calculations (spec §4.4).
type bandwidthEstimator struct{}

func mss(reads HostReads) uint32 {
	if reads.MSS == 0 {
		return minSegmentSize
	}
	return reads.MSS
}

// update runs the full bandwidth refresh: round-boundary detection, the
// sample-bw max filter, and the ack-driven bw / throughput pair that
// downstream components read off state for this step.
func (b bandwidthEstimator) update(s *State, sample Sample, reads HostReads) {
	s.RoundStart = false
	if sample.PriorDelivered >= s.Delivered {
		// mss(reads) generalizes spec §4.4's MIN_SEGMENT_SIZE constant to the
		// host's actual reported MSS; the two coincide whenever reads.MSS == 0.
		s.Delivered = reads.Delivered * mss(reads)
		s.RTTCnt++
		s.RoundStart = true
	}

	if sample.Delivered >= 0 {
		s.CurrAck = uint32(sample.Delivered) * mss(reads)
	}

	b.updateMaxFilter(s, sample)

	s.ackDrivenBW = b.ackDrivenBandwidth(s)
}

// updateMaxFilter accepts a new sample-bw reading into the max-filtered bw
// unless the sender was app-limited and the sample does not exceed the
// existing max (spec §4.4, testable property "app-limited guard").
func (b bandwidthEstimator) updateMaxFilter(s *State, sample Sample) {
	if sample.Delivered < 0 || sample.IntervalUs <= 0 {
		return
	}
	sampleBW := mulDivU32(uint64(sample.Delivered), bwScale, uint64(sample.IntervalUs))
	if !sample.IsAppLimited || sampleBW >= s.BW {
		s.BW = maxU32(s.BW, sampleBW)
	}
}

// ackDrivenBandwidth computes curr_ack * 2^24 * 10000 / last_min_rtt,
// floored at MIN_BW. The triple product is accumulated with an exact
// 128-bit intermediate (fixedmath.go) so it never wraps silently.
func (b bandwidthEstimator) ackDrivenBandwidth(s *State) uint32 {
	rtt := maxU32(s.LastMinRTT, minRTTUs)
	bw := mulDivU32(uint64(s.CurrAck)*10000, bwScale, uint64(rtt))
	return maxU32(bw, minBW)
}

// throughput computes (bytes_in_flight * 10000) / last_min_rtt, where
// bytes_in_flight is the host's reported in-flight byte count (spec §4.2
// documents prior_in_flight in bytes already, so no further pkt*mss
// conversion is applied here — the resolution of the ambiguity spec §9
// flags between "bytes" and "inflight_pkts * mss").
func (b bandwidthEstimator) throughput(s *State, sample Sample) uint32 {
	rtt := maxU32(s.LastMinRTT, minRTTUs)
	return mulDivU32(uint64(sample.PriorInFlight), 10000, uint64(rtt))
}

// maxBW selects between the max-filtered bw and the ack-driven bw, scc_max_bw
// (spec §4.4): prefer the larger, unless loss_cnt has crossed 50, in which
// case only the filtered bw is trusted.
func (b bandwidthEstimator) maxBW(s *State) uint32 {
	if s.LossCnt >= 50 {
		return s.BW
	}
	return maxU32(s.BW, s.ackDrivenBW)
}
