// Package spline implements the Spline congestion-control state machine: a
// hybrid of BBR-style model-based probing (bandwidth x minimum RTT) and
// loss/RTT-adaptive heuristics, aimed at lossy, jittery paths (wireless,
// high-variance WANs).
//
// The package holds only the per-connection control-loop core. It never
// touches sockets, buffers, or timers — it is driven entirely by the host
// transport feeding it rate samples through Controller, and consumes a
// non-blocking PRNG and clock supplied at Init time.
package spline

// Fixed-point scales. Two coexist throughout the module: BBRScale (~0..4,
// used for gains) and BWScale (bandwidth and ratio quantities).
const (
	bbrScaleBits = 8
	bbrScale     = 1 << bbrScaleBits // 256

	bwScaleBits = 24
	bwScale     = 1 << bwScaleBits // 16,777,216
)

// Contract constants (spec §6).
const (
	minSndCwnd     = 10    // segments
	minSegmentSize = 1448  // bytes, default MSS
	minBW          = 14480 // bw-units floor
	minRTTUs       = 100000
	minRTTWinSec   = 10

	threshTF    = 3413567
	minThreshTF = 1713567
)

// Long-term (policed-link) bandwidth detector bounds.
const (
	ltMinRounds       = 4
	ltMaxRounds       = 16
	ltMaxRoundsInProbeBW = 48
	ltBWDiffBps       = 500 // bytes/sec, absolute tolerance
)

// Gain table (spec §4.9). Pacing gains are BBRScale units (x/256); the
// drain cwnd gain and the fairness/cwnd-gain clamps are BWScale units
// (x/16,777,216) — the two scales coexist deliberately (spec §9 Open
// Questions: DRAIN's cwnd_gain is BW-scale while the pacing gains around it
// are BBR-scale).
const (
	pacingGainProbeBW  = 550
	pacingGainProbeRTT = 250
	pacingGainDrain    = 100
	pacingGainStart    = bbrScale // 256, i.e. 1.0

	drainCwndGain = 5_646_946 // BWScale units

	cwndGainMin = 6_646_946
	cwndGainMax = 37_390_997
)

const (
	fairnessRatMin = 16_646_946
	fairnessRatMax = 21_989_530
)

const rttEpochMax = 1 << 15 // spec §4.6
