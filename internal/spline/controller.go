package spline

// bdp estimates bandwidth x RTT in bytes at a given gain, used by
// scc_is_next_cycle_phase as the inflight threshold that can end a gain
// cycle before its full length has elapsed (spec §4.12).
func bdp(bw, rttUs, gain uint32) uint32 {
	return bdpCeil(bw, rttUs, gain)
}

// Controller is the single per-connection entry point the host drives:
// Init once, then OnAck on every acked segment, with SetState, CwndEvent,
// UndoCwnd and Ssthresh as secondary hooks (spec §4.12, §6).
//
// Controller holds no state of its own beyond the injected collaborators;
// all per-connection data lives in the State the caller owns and passes by
// pointer to every call, matching the "exclusively-owned record" model
// spec §9 calls for in place of the source's global slot.
type Controller struct {
	rng PRNG
	log Logger

	rtt       rttEstimator
	bandwidth bandwidthEstimator
	longterm  longTermBwDetector
	fairness  fairnessEstimator
	loss      lossAccounting
	phase     phaseMachine
	gain      gainSelector
	cwnd      cwndEngine
	pacing    pacingRate
}

// NewController builds a Controller bound to a PRNG (mandatory: the phase
// machine's epoch randomisation needs it) and an optional Logger (defaults
// to a no-op).
func NewController(rng PRNG, log Logger) *Controller {
	if log == nil {
		log = NopLogger{}
	}
	return &Controller{rng: rng, log: log}
}

// Init zeroes all counters, sets curr_cwnd to the contract minimum, and
// seeds the bootstrap epoch (spec §4.12 "init").
func (c *Controller) Init(s *State, reads HostReads) {
	*s = State{}
	s.CurrCwnd = minSndCwnd * mss(reads)
	s.RTTEpoch = 4000
	s.FairnessRat = fairnessRatMin
	c.phase.init(s, c.rng)

	if reads.SRTTUs > 0 {
		s.CurrRTT = reads.SRTTUs / 8
		s.LastMinRTT = s.CurrRTT
		s.HasSeenRTT = true
		rate := c.pacing.compute(s, reads)
		s.pacingRateBps = rate
		s.initialized = true
	} else {
		s.CurrRTT = minRTTUs
		s.LastMinRTT = minRTTUs
	}
}

// OnAck is cong_control(ack, flag, rate_sample): the main per-ack update
// step. It follows the fixed ordering Input -> RTT -> Bandwidth ->
// Fairness/Stability -> Loss -> Phase/Gain -> Cwnd -> Pacing (spec §5).
func (c *Controller) OnAck(s *State, sample Sample, reads HostReads) HostWrites {
	if sample.Delivered < 0 {
		sample.Delivered = 0
	}

	s.LastAck = s.CurrAck
	s.PrevCAState = reads.CAState

	c.rtt.update(s, sample, reads)

	if sample.IntervalUs > 0 && sample.Delivered >= 0 {
		c.bandwidth.update(s, sample, reads)
	} else {
		s.RoundStart = false
	}

	s.txAppLimited = sample.IsAppLimited

	c.longterm.maybeEnter(s, sample, reads, c.rng)
	c.longterm.update(s, sample, reads)

	c.fairness.update(s, sample, reads)

	if c.isNextCyclePhase(s, reads) || s.StartPhase {
		s.CycleMstamp = reads.NowNs
	}

	tf := c.loss.update(s, reads)

	c.phase.maybeTransition(s, tf, c.rng)
	c.gain.update(s)

	cwndBytes := c.cwnd.update(s, sample, reads, tf)

	candidate := c.pacing.compute(s, reads)
	rate := c.pacing.install(s.pacingRateBps, candidate, !s.initialized)
	s.pacingRateBps = rate
	s.initialized = true

	mssB := mss(reads)
	outCwnd := cwndBytes / mssB
	if outCwnd < minSndCwnd {
		outCwnd = minSndCwnd
	}
	outCwnd += sample.AckedSacked
	if reads.SndCwndClamp > 0 && outCwnd > reads.SndCwndClamp {
		outCwnd = reads.SndCwndClamp
	}

	c.log.Debugw("spline.on_ack",
		"mode", s.CurrentMode.String(),
		"cwnd_segments", outCwnd,
		"pacing_bps", rate,
		"loss_cnt", s.LossCnt,
		"fairness_rat", s.FairnessRat,
	)

	return HostWrites{
		SndCwnd:     outCwnd,
		PacingRate:  rate,
		SndSsthresh: infiniteSsthresh,
	}
}

// isNextCyclePhase implements scc_is_next_cycle_phase (spec §4.12): whether
// the current pacing-gain cycle has run its course. OnAck uses the result
// only to re-anchor cycle_mstamp; the bandwidth and fairness refresh runs on
// every ack whatever this returns.
func (c *Controller) isNextCyclePhase(s *State, reads HostReads) bool {
	bw := c.bandwidth.maxBW(s)
	fullLength := reads.NowNs-s.CycleMstamp >= int64(s.LastMinRTT)*1000

	switch {
	case s.PacingGain == bbrScale:
		return fullLength
	case s.PacingGain > bbrScale:
		return s.PrevCAState == CALoss || uint64(reads.SndCwnd)*uint64(mss(reads)) >= uint64(bdp(bw, s.LastMinRTT, s.PacingGain))
	default:
		return fullLength || uint64(reads.SndCwnd)*uint64(mss(reads)) <= uint64(bdp(bw, s.LastMinRTT, s.CwndGain))
	}
}

// SetState is on_state_change(new_state): on entering Loss, it seeds
// prev_ca_state, forces a new rtt round, and feeds the long-term detector a
// synthetic loss sample so a drop mid-interval is still visible to it
// (spec §4.12).
func (c *Controller) SetState(s *State, newState CAState, reads HostReads) {
	s.PrevCAState = newState
	if newState == CALoss {
		s.RoundStart = true
		c.longterm.maybeEnter(s, Sample{Losses: true}, reads, c.rng)
	}
}

// CwndEvent is cwnd_event(event): on TX_START while app-limited in
// PROBE_BW, pacing resets to lt_or_max_bw at unity gain (spec §4.12).
func (c *Controller) CwndEvent(s *State, event CwndEvent, reads HostReads) HostWrites {
	if event == CwndEventTxStart && s.txAppLimited && s.CurrentMode == ModeProbeBW {
		s.PacingGain = pacingGainStart
		rate := c.pacing.compute(s, reads)
		s.pacingRateBps = rate
		return HostWrites{SndCwnd: reads.SndCwnd, PacingRate: rate, SndSsthresh: infiniteSsthresh}
	}
	return HostWrites{SndCwnd: reads.SndCwnd, PacingRate: s.pacingRateBps, SndSsthresh: infiniteSsthresh}
}

// UndoCwnd rolls back an in-progress LT episode and returns the host's
// current cwnd unchanged (spec §4.12).
func (c *Controller) UndoCwnd(s *State, reads HostReads) uint32 {
	c.longterm.reset(s)
	return reads.SndCwnd
}

// Ssthresh saves the current cwnd into State.priorCwnd (the source wrote
// this to a local that was never read back) and returns the host's
// snd_cwnd_clamp. HostReads carries no ssthresh field, so a separate
// host-configured ssthresh is not consulted.
func (c *Controller) Ssthresh(s *State, reads HostReads) uint32 {
	s.priorCwnd = s.CurrCwnd
	return reads.SndCwndClamp
}

// SndbufExpand always returns 3 (spec §6).
func (c *Controller) SndbufExpand() int {
	return 3
}
