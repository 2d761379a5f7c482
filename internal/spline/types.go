package spline

// Mode is the phase-machine state (spec §3, §4.8).
type Mode uint8

const (
	ModeStart Mode = iota
	ModeProbeBW
	ModeProbeRTT
	ModeDrain
)

func (m Mode) String() string {
	switch m {
	case ModeStart:
		return "START"
	case ModeProbeBW:
		return "PROBE_BW"
	case ModeProbeRTT:
		return "PROBE_RTT"
	case ModeDrain:
		return "DRAIN"
	default:
		return "UNKNOWN"
	}
}

// CAState mirrors the host transport's last known path state (spec §3).
type CAState uint8

const (
	CAOpen CAState = iota
	CADisorder
	CACWR
	CARecovery
	CALoss
)

// CwndEvent enumerates the host notifications consumed by Controller.CwndEvent
// (spec §6 "cwnd_event(event)").
type CwndEvent uint8

const (
	// CwndEventTxStart fires when the sender transitions from idle to
	// transmitting after being app-limited.
	CwndEventTxStart CwndEvent = iota
)

// PRNG is the host-provided, non-blocking source of randomness used to
// randomise epoch length (spec §5 "Randomness is drawn from a host-provided
// PRNG that is non-blocking"). Next32 must return a value uniformly
// distributed over [0, bound); bound > 0 is guaranteed by the caller.
type PRNG interface {
	Next32(bound uint32) uint32
}

// Logger is the minimal structured-logging seam the core depends on. It is
// satisfied trivially by a no-op and, at the host-integration boundary, by
// a zap.SugaredLogger adapter (see internal/simhost).
type Logger interface {
	Debugw(msg string, kv ...any)
}

// NopLogger discards everything; it is the default when no Logger is
// supplied to NewController.
type NopLogger struct{}

func (NopLogger) Debugw(string, ...any) {}

// Sample is the rate-sample contract delivered to Controller.OnAck on
// each ack (spec §4.2, §6). Units follow the "pick one and document it"
// resolution of the corresponding Open Question (spec §9): Delivered and
// AckedSacked are segment counts; PriorInFlight/PriorDelivered are bytes.
// PriorDelivered is compared against State.Delivered, which holds the
// host's segment counter HostReads.Delivered multiplied by the MSS.
type Sample struct {
	Delivered      int32 // segments newly delivered since the last sample; negative is invalid
	IntervalUs     int64 // > 0 to be valid; otherwise the bandwidth update is skipped
	RTTUs          int64 // > 0 to be valid; 0 means no RTT sample this ack
	AckedSacked    uint32
	PriorInFlight  uint32
	PriorDelivered uint32
	Losses         bool
	IsAppLimited   bool
	IsAckDelayed   bool
}

// HostReads is the slice of host transport state read by Controller on
// every entry point (spec §6 "Read from host state each call").
type HostReads struct {
	SRTTUs        uint32 // host's smoothed RTT, scaled by 8 (Linux tcp_sock convention); 0 if unknown
	SndCwnd       uint32 // segments
	MSS           uint32 // mss_cache, bytes; 0 means "use minSegmentSize"
	Delivered     uint32 // tp->delivered, segments delivered total
	Lost          uint32 // tp->lost, segments lost total
	InFlight      uint32 // bytes currently in flight
	SndCwndClamp  uint32 // segments
	MaxPacingRate uint64 // bytes/sec, 0 means "no cap"
	CAState       CAState
	NowTicks      uint32 // tcp_jiffies32-like monotonic tick counter, ms resolution
	NowNs         int64  // tcp_clock_cache-like monotonic nanosecond stamp
}

// HostWrites is what Controller produces for the host to install on every
// OnAck call (spec §6 "Outputs written to host state").
type HostWrites struct {
	SndCwnd     uint32 // segments, clamped to [minSndCwnd, SndCwndClamp]
	PacingRate  uint64 // bytes/sec
	SndSsthresh uint32 // set to "infinite" every step (spec §6)
}

const infiniteSsthresh = 1<<32 - 1

// State is the per-connection state block (spec §3). It is created once by
// Init and mutated only through Controller's entry points; there is no
// shared mutable state across connections and no internal locking — the
// host guarantees serialised calls per connection (spec §5).
type State struct {
	CurrCwnd        uint32
	LastMinRTT      uint32
	LastMinRTTStamp uint32
	CurrRTT         uint32
	LastRTT         uint32
	RTTEpoch        uint32

	LastAck uint32
	CurrAck uint32

	BW         uint32
	LTBw       uint32
	LTUseBW    bool
	LTIsSampling bool
	LTLastStamp  uint32
	LTLastDelivered uint32
	LTLastLost      uint32
	LTRTTCnt        uint8
	LTTargetRounds  uint8
	LTRoundsInUse   uint8

	Delivered uint32

	PacingGain uint32
	CwndGain   uint32
	Gain       uint32

	FairnessRat uint32

	StableFlag uint16
	UnfairFlag uint16
	LossCnt    uint8
	HighRound  uint8

	RTTCnt     uint32
	Epp        uint8
	EpochRound uint8

	CycleMstamp int64

	CurrentMode Mode
	PrevCAState CAState

	StartPhase bool
	RoundStart bool
	HasSeenRTT bool

	// priorCwnd is the cwnd saved by Ssthresh. Spec §9
	// Open Questions flags that the original's spline_save_cwnd wrote a
	// local that was never read back; here it is a real state field.
	// No entry point reads it: UndoCwnd returns the host's current cwnd.
	priorCwnd uint32

	// lastTF is the most recently computed adaptive trust factor (spec
	// §4.7), recorded by LossAccounting. PhaseMachine and CwndEngine do not
	// read this field; OnAck passes them the same value as an argument.
	lastTF uint32

	// txAppLimited records whether the most recent OnAck sample was
	// app-limited, for CwndEvent's TX_START check.
	txAppLimited bool

	// ackDrivenBW is the curr_ack-derived bandwidth (spec §4.4 "ack-driven
	// bw"), recomputed every step by the bandwidth estimator and consumed
	// by both GainSelector and CwndEngine in the same step.
	ackDrivenBW uint32

	// pacingRateBps is the last rate installed on the host, kept so the
	// next step can enforce the monotonic non-decrease rule (spec §6).
	pacingRateBps uint64

	// initialized is false until a pacing rate has been installed, either
	// by Init (when the host already reports an SRTT) or by the first
	// on_ack call; it gates the "first-time init from RTT" exception to the
	// monotonic non-decrease rule.
	initialized bool
}
