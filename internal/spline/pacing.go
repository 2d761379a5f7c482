package spline

// pacingRateFactor is (USEC_PER_SEC/100 * (100-1)), the margin factor
// applied after the gain/mss product (spec §4.11).
const pacingRateFactor = (1_000_000 / 100) * 99

// pacingRate converts bandwidth and gain into a bytes/second target, with a
// margin below line rate and a floor that only installs an increase (spec
// §4.11).
type pacingRate struct{}

// compute returns rate_bytes_per_sec(bw, gain) = ((bw*mss*gain)>>8 *
// pacingRateFactor) >> 24, capped at the host's max_pacing_rate. When
// lt_use_bw is set, bw is lt_bw and gain is unity (spec §4.9, §4.11).
func (p pacingRate) compute(s *State, reads HostReads) uint64 {
	bw := bandwidthEstimator{}.maxBW(s)
	gain := s.PacingGain
	if s.LTUseBW {
		bw = s.LTBw
		gain = pacingGainStart
	}

	step1 := mulDivU32(uint64(bw)*uint64(mss(reads)), uint64(gain), bbrScale)
	rate := mulDivU32(uint64(step1), pacingRateFactor, bwScale)

	out := uint64(rate)
	if reads.MaxPacingRate > 0 && out > reads.MaxPacingRate {
		out = reads.MaxPacingRate
	}
	return out
}

// install applies the monotonic-non-decrease rule: a new rate only
// replaces the currently installed one if it is larger, unless this is the
// first-time initialisation from RTT (spec §6 "pacing_rate ... monotonically
// non-decreasing").
func (p pacingRate) install(current, candidate uint64, firstInit bool) uint64 {
	if firstInit || candidate > current {
		return candidate
	}
	return current
}
