package spline

// gainSelector chooses pacing_gain and cwnd_gain for the current mode
// (spec §4.9).
type gainSelector struct{}

func (g gainSelector) update(s *State) {
	switch s.CurrentMode {
	case ModeProbeBW:
		s.PacingGain = pacingGainProbeBW
		s.CwndGain = g.cwndGain(s)
	case ModeProbeRTT:
		s.PacingGain = pacingGainProbeRTT
		s.CwndGain = g.cwndGain(s)
	case ModeDrain:
		s.PacingGain = pacingGainDrain
		s.CwndGain = drainCwndGain
	default: // ModeStart
		s.PacingGain = pacingGainStart
		s.CwndGain = g.cwndGain(s)
	}

	if s.LTUseBW {
		s.PacingGain = pacingGainStart
	}
}

// cwndGain computes spline_cwnd_gain(curr_ack) = curr_ack * 2^24 /
// ((bw * 1e6) / rtt), clamped to [6,646,946 ; 37,390,997].
//
// The source mixes BBR-scale and BW-scale quantities in this one formula
// (spec §9 open question); bw here is the ack-driven bandwidth already
// expressed in BW-scale units and rtt is the current smoothed RTT, both
// floored against their contract minimums before division.
func (g gainSelector) cwndGain(s *State) uint32 {
	bw := maxU32(s.ackDrivenBW, minBW)
	rtt := maxU32(s.CurrRTT, minRTTUs)

	denom := mulDivU32(uint64(bw)*1_000_000, 1, uint64(rtt))
	if denom == 0 {
		denom = 1
	}
	gain := mulDivU32(uint64(s.CurrAck), bwScale, uint64(denom))
	return clampU32(gain, cwndGainMin, cwndGainMax)
}
