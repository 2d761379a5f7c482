package spline

// highRTTStreakTarget is the number of consecutive qualifying rounds that
// widen rtt_epoch (spec §4.6 "fifty consecutive high-RTT rounds").
const highRTTStreakTarget = 50

// rttEpochStep is the widening increment applied to rtt_epoch, capped at
// rttEpochMax.
const rttEpochStep = 4000

// fairnessEstimator derives fairness_rat and the stable/unfair stability
// counters from the current RTT and bandwidth picture (spec §4.6).
type fairnessEstimator struct{}

func (f fairnessEstimator) update(s *State, sample Sample, reads HostReads) {
	bw := bandwidthEstimator{}.maxBW(s)
	throughput := bandwidthEstimator{}.throughput(s, sample)
	if throughput == 0 {
		throughput = maxU32(bw/4, 1)
	}
	s.FairnessRat = clampU32(mulDivU32(uint64(bw), 1, uint64(throughput)), fairnessRatMin, fairnessRatMax)

	high := f.highRTTCheck(s)
	rtt := f.rttCheck(s)
	ack := f.ackCheck(s)

	if high && rtt && ack {
		s.StableFlag = satIncU16(s.StableFlag)
	}
	if !high && !rtt && !ack {
		s.UnfairFlag = satIncU16(s.UnfairFlag)
	}

	inflightBytes := uint64(sample.PriorInFlight)
	cwndBytesThresh := uint64(s.CurrCwnd) * minSegmentSize
	if high && ack && inflightBytes > cwndBytesThresh {
		s.HighRound = satIncU8(s.HighRound)
		if uint32(s.HighRound) >= highRTTStreakTarget {
			s.RTTEpoch = minU32(s.RTTEpoch+rttEpochStep, rttEpochMax)
			s.HighRound = 0
		}
	} else {
		s.HighRound = 0
	}
}

// highRTTCheck: current RTT sits 1ms..(epoch/4) above the previous smoothed
// RTT (spec §4.6).
func (f fairnessEstimator) highRTTCheck(s *State) bool {
	lower := s.LastRTT + 1000
	upper := s.LastRTT + s.RTTEpoch - (3*s.RTTEpoch)/4
	return lower < s.CurrRTT && upper > s.CurrRTT
}

// rttCheck: same shape as highRTTCheck but against the windowed minimum RTT
// and a wider (3/8 epoch) bound.
func (f fairnessEstimator) rttCheck(s *State) bool {
	lower := s.LastMinRTT + 1000
	upper := s.LastMinRTT + s.RTTEpoch - (3*s.RTTEpoch)/8
	return lower < s.CurrRTT && upper > s.CurrRTT
}

// ackCheck: the ack stream advanced by a modest, bounded amount.
func (f fairnessEstimator) ackCheck(s *State) bool {
	return s.CurrAck > s.LastAck && s.CurrAck < s.LastAck+7000 && s.LastAck > 10
}
