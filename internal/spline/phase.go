package spline

// epochRoundBootstrapBase/epochRoundBase plus a draw over epochRoundRandSpan
// set the randomised epoch length at init and on every transition after
// bootstrap; epochRoundPostBootstrap is the fixed length after the first
// transition (spec §4.8, contract "rand(0..30)").
const (
	epochRoundBootstrapBase = 10
	epochRoundPostBootstrap = 20
	epochRoundBase          = 1
	epochRoundRandSpan      = 31 // rand(0..30) inclusive
)

// drainLossMultiplier and drainLossOffset implement the DRAIN trigger
// (scc_lt_loss_thresh+1)*6 (spec §4.8).
const drainLossMultiplier = 6
const drainLossOffset = 1

// phaseMachine drives the mode transitions: START -> {PROBE_BW, PROBE_RTT}
// with an optional DRAIN override, gated by a randomised epoch length
// (spec §4.8).
type phaseMachine struct{}

func (p phaseMachine) init(s *State, rng PRNG) {
	s.CurrentMode = ModeStart
	s.StartPhase = true
	s.EpochRound = epochRoundBootstrapBase + uint8(rng.Next32(epochRoundRandSpan))
	s.Epp = 0
}

// maybeTransition fires the phase machine when the epoch boundary is
// reached (epp == EPOCH_ROUND), deciding at most one mode change per call
// (spec §3 invariant).
func (p phaseMachine) maybeTransition(s *State, tf uint32, rng PRNG) {
	if s.Epp != s.EpochRound {
		return
	}

	s.Epp = 0
	if s.StartPhase {
		s.EpochRound = epochRoundPostBootstrap
		s.StartPhase = false
	} else {
		s.EpochRound = epochRoundBase + uint8(rng.Next32(epochRoundRandSpan))
	}

	fe := fairnessEstimator{}
	next := ModeProbeBW
	if tf < threshTF || s.UnfairFlag > s.StableFlag {
		next = ModeProbeRTT
	}

	if !fe.rttCheck(s) && !fe.ackCheck(s) &&
		uint64(s.LTLastLost) > uint64((ltLossThresh+drainLossOffset)*drainLossMultiplier) {
		next = ModeDrain
	}

	s.CurrentMode = next
}
