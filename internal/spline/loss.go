package spline

// Loss counter backoff thresholds (spec §4.7 loss_backoff_cwnd).
const lossCwndBackoffFloor = 9
const lossCwndBackoffCap = 12

// lossAccounting counts losses relative to delivered segments since the last lt
// anchor, derives the adaptive trust factor, and applies the cwnd backoff
// curve once the loss counter crosses its threshold (spec §4.7).
type lossAccounting struct{}

// update advances loss_cnt and returns the trust factor tf for this step.
func (l lossAccounting) update(s *State, reads HostReads) uint32 {
	lost := reads.Lost - s.LTLastLost
	delivered := reads.Delivered - s.LTLastDelivered

	if uint64(lost)*256 > uint64(delivered)/8 {
		s.LossCnt = satIncU8(s.LossCnt)
	}

	tf := l.trustFactor(s.LossCnt, s.StableFlag, s.UnfairFlag)

	if s.LossCnt > 1 && tf > threshTF {
		s.LossCnt--
	}

	s.lastTF = tf
	return tf
}

// trustFactor computes percent_gain(last_lost, stable, unfair) = (stable *
// 3/4 * 2^24) / ((last_lost + unfair) * 3/2).
func (l lossAccounting) trustFactor(lastLost uint8, stableFlag, unfairFlag uint16) uint32 {
	stable := uint64(stableFlag)
	if stable == 0 {
		stable = 1
	}
	unfair := uint64(unfairFlag)
	if unfair == 0 {
		unfair = 1
	}

	num := stable * 3 * bwScale / 4
	den := (uint64(lastLost) + unfair) * 3 / 2
	if den == 0 {
		den = 1
	}
	return mulDivU32(num, 1, den)
}

// backoff applies the loss-driven cwnd reduction (spec §4.7 loss_backoff_cwnd):
// once loss_cnt exceeds 9 it is capped at 12 and cwnd is scaled by
// loss_cnt^3 / 2^loss_cnt.
func (l lossAccounting) backoff(cwnd uint32, lossCnt *uint8) uint32 {
	if *lossCnt <= lossCwndBackoffFloor {
		return cwnd
	}
	if *lossCnt > lossCwndBackoffCap {
		*lossCnt = lossCwndBackoffCap
	}
	lc := uint64(*lossCnt)
	return mulDivU32(uint64(cwnd)*lc*lc*lc, 1, uint64(1)<<lc)
}
