package spline

// ltLossThresh is scc_lt_loss_thresh: the loss-ratio numerator (out of 256)
// that a completed LT sampling interval must reach to yield an lt_bw
// estimate, also used in the DRAIN override threshold
// (spec §4.5, §4.8; contract table "loss threshold 50/256").
const ltLossThresh = 50

// longTermBwDetector detects traffic policers — links with a near-constant
// delivery rate despite losses — and switches pacing over to the filtered
// lt_bw when one is found (spec §4.5).
type longTermBwDetector struct{}

// maybeEnter starts a sampling interval the first time a loss is observed
// while idle (neither sampling nor already using lt_bw).
func (d longTermBwDetector) maybeEnter(s *State, sample Sample, reads HostReads, rng PRNG) {
	if s.LTIsSampling || s.LTUseBW {
		return
	}
	if !sample.Losses {
		return
	}
	d.startSampling(s, reads, rng)
}

// startSampling seeds the interval anchors from the host's current
// delivered/lost/stamp counters rather than zeroing them, so the first
// completed interval measures the sampling window only — zeroing here would
// make update's first lost/delivered/intervalUs computation span the whole
// connection lifetime instead (the bug a real BBR lt-sampling reset avoids
// by seeding from current state on entry).
func (d longTermBwDetector) startSampling(s *State, reads HostReads, rng PRNG) {
	s.LTIsSampling = true
	s.LTLastStamp = reads.NowTicks
	s.LTLastDelivered = reads.Delivered
	s.LTLastLost = reads.Lost
	s.LTRTTCnt = 0
	s.LTTargetRounds = uint8(ltMinRounds + rng.Next32(ltMaxRounds-ltMinRounds+1))
}

// update advances a sampling interval in progress: it resets on any
// app-limited sample, counts rounds, and on interval completion either
// locks in lt_bw (averaging against the prior estimate) or restarts
// sampling with the new estimate (spec §4.5).
func (d longTermBwDetector) update(s *State, sample Sample, reads HostReads) {
	if s.LTUseBW {
		if reads.CAState != CALoss && s.RoundStart {
			s.LTRoundsInUse = satIncU8(s.LTRoundsInUse)
			if s.LTRoundsInUse > ltMaxRoundsInProbeBW {
				d.reset(s)
			}
		}
		return
	}
	if !s.LTIsSampling {
		return
	}
	if sample.IsAppLimited {
		d.reset(s)
		return
	}
	if !s.RoundStart {
		return
	}

	s.LTRTTCnt++
	if s.LTRTTCnt > ltMaxRounds {
		d.reset(s)
		return
	}
	if s.LTRTTCnt < s.LTTargetRounds {
		return
	}

	lost := reads.Lost - s.LTLastLost
	delivered := reads.Delivered - s.LTLastDelivered
	if uint64(lost)<<8 < uint64(ltLossThresh)*uint64(delivered) {
		// Loss ratio too low this interval; keep sampling rounds but reset
		// the round counter so a later, lossier interval gets a fair look.
		s.LTRTTCnt = 0
		s.LTLastDelivered = reads.Delivered
		s.LTLastLost = reads.Lost
		return
	}

	elapsedMs := reads.NowTicks - s.LTLastStamp
	intervalUs := uint64(elapsedMs) * 1000
	if intervalUs == 0 {
		d.reset(s)
		return
	}
	intervalBW := mulDivU32(uint64(delivered)*uint64(mss(reads)), bwScale, intervalUs)

	if s.LTBw != 0 {
		diff := absDiffU32(intervalBW, s.LTBw)
		tolerance := maxU32(s.LTBw/8, ltBWDiffBps)
		if diff <= tolerance {
			s.LTBw = (s.LTBw + intervalBW) / 2
			s.LTUseBW = true
			s.LTIsSampling = false
			s.LTRoundsInUse = 0
			s.PacingGain = pacingGainStart
			return
		}
	}

	s.LTBw = intervalBW
	s.LTLastStamp = reads.NowTicks
	s.LTLastDelivered = reads.Delivered
	s.LTLastLost = reads.Lost
	s.LTRTTCnt = 0
}

func (d longTermBwDetector) reset(s *State) {
	s.LTIsSampling = false
	s.LTUseBW = false
	s.LTRTTCnt = 0
	s.LTRoundsInUse = 0
	s.LTLastStamp = 0
	s.LTLastDelivered = 0
	s.LTLastLost = 0
}

func absDiffU32(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
