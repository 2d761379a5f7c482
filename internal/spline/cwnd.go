package spline

import "math/bits"

// gainFloor is the minimum composite gain value before it is used to
// derive a cwnd candidate (spec §4.10 "floored at 646946").
const gainFloor = 646946

// unfairLossVariantThresh and lossCntVariantThresh gate the choice between
// the stable and loss cwnd candidates (spec §4.10).
const unfairLossVariantThresh = 2000
const lossCntVariantThresh = 10

// bootstrapBypassLossCnt and the fusionUnfair*/fusionStable*/fusionLossCnt*
// thresholds parameterise the final next_cwnd fusion rule (spec §4.10).
const bootstrapBypassLossCnt = 50
const fusionUnfairAbsThresh = 2000
const fusionStableAbsThresh = 300
const fusionUnfairStableMargin = 500
const fusionLossCntThresh = 5

// cwndEngine computes the next congestion window from the gain/bandwidth
// product, fused with a BDP-derived target (spec §4.10). It operates on
// curr_cwnd in bytes internally; Controller converts to/from the segment
// count the host contract expects.
type cwndEngine struct{}

func (c cwndEngine) update(s *State, sample Sample, reads HostReads, tf uint32) uint32 {
	fe := fairnessEstimator{}
	bw := bandwidthEstimator{}.maxBW(s)

	rttAvg := uint32((uint64(s.LastMinRTT) + uint64(s.CurrRTT)) / 2)
	if rttAvg == 0 {
		rttAvg = minRTTUs
	}

	gain := maxU32(mul3SatU32(s.CwndGain, s.ackDrivenBW, rttAvg), gainFloor)

	cwndStable := shiftDivU32(gain, rttAvg, bwScaleBits)

	rtt2 := (uint64(rttAvg) + uint64(s.CurrRTT)) / 2
	if rtt2 == 0 {
		rtt2 = minRTTUs
	}
	q2 := uint64(gain) / rtt2
	cwndLoss := saturateU32((uint64(s.FairnessRat) * q2) >> bwScaleBits)

	useLoss := s.UnfairFlag > unfairLossVariantThresh || !fe.highRTTCheck(s) || s.LossCnt > lossCntVariantThresh
	chosen := cwndStable
	if useLoss {
		chosen = cwndLoss
	}

	chosen = lossAccounting{}.backoff(chosen, &s.LossCnt)

	chosen = mulDivU32(uint64(chosen), uint64(maxU32(tf, minThreshTF)), bwScale)

	mssB := mss(reads)
	splineMaxCwnd := saturateU32((uint64(s.FairnessRat) * uint64(s.CurrCwnd)) >> bwScaleBits)
	splineMaxCwnd = maxU32(splineMaxCwnd, 2*minSndCwnd*mssB)
	lowerBound := maxU32(s.CurrCwnd, splineMaxCwnd/8)
	chosen = maxU32(chosen, lowerBound)

	chosen = saturateU32(uint64(chosen) + uint64(sample.AckedSacked)*uint64(mssB))

	target := bdpCeil(bw, s.LastMinRTT, s.CwndGain)

	next := c.fuse(s, tf, target, chosen)

	s.CurrCwnd = next
	return next
}

// fuse implements next_cwnd's three-way decision between the gain-computed
// candidate and the BDP-derived target (spec §4.10).
func (c cwndEngine) fuse(s *State, tf, target, computed uint32) uint32 {
	switch {
	case tf < threshTF && !s.StartPhase && s.LossCnt > bootstrapBypassLossCnt:
		return computed
	case (s.UnfairFlag > fusionUnfairAbsThresh && s.StableFlag < fusionStableAbsThresh) ||
		(uint32(s.UnfairFlag) > uint32(s.StableFlag)+fusionUnfairStableMargin && s.LossCnt > fusionLossCntThresh):
		sum := saturateU32(uint64(target) + uint64(computed))
		return mulDivU32(uint64(sum), 7, 16)
	default:
		return maxU32(target, computed)
	}
}

// mul3SatU32 computes a*b*c with an exact intermediate, saturating at
// math.MaxUint32 rather than wrapping (spec §4.1).
func mul3SatU32(a, b, c uint32) uint32 {
	p1 := uint64(a) * uint64(b)
	hi, lo := bits.Mul64(p1, uint64(c))
	if hi != 0 {
		return 1<<32 - 1
	}
	return saturateU32(lo)
}

// shiftDivU32 computes (a/b) >> shift as a saturated uint32.
func shiftDivU32(a, b uint32, shift uint) uint32 {
	if b == 0 {
		b = 1
	}
	return saturateU32((uint64(a) / uint64(b)) >> shift)
}

// bdpCeil computes ceil(bw * rttUs * gain / 2^48) (spec §4.10 scc_bdp),
// staged as an exact bw*rttUs product (both fit uint32, so the product
// always fits uint64) shifted down by the first 2^24, then multiplied by
// gain with a 128-bit intermediate and divided by the remaining 2^24,
// rounding the final division up.
func bdpCeil(bw, rttUs, gain uint32) uint32 {
	stage1 := (uint64(bw) * uint64(rttUs)) >> bwScaleBits
	hi, lo := bits.Mul64(stage1, uint64(gain))
	if hi >= 1<<bwScaleBits {
		return 1<<32 - 1
	}
	q, r := bits.Div64(hi, lo, 1<<bwScaleBits)
	if r > 0 {
		q++
	}
	return saturateU32(q)
}
