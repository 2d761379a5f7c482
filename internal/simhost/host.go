// Package simhost supplies a synthetic host transport for internal/spline:
// a per-connection Host that drives Controller against a linkSim built
// from an internal/simconfig network profile, so the control loop can run
// end-to-end without a real kernel or NIC. The zap logging and panic
// boundary around the hot path follow the teacher's SendController pattern.
package simhost

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spline-cc/spline/internal/simconfig"
	"github.com/spline-cc/spline/internal/spline"
)

// Round is one step's outcome, returned to callers (cmd/splinesim) that
// want to render or record it without reaching into Host's internals.
type Round struct {
	Index  int
	Sample spline.Sample
	Reads  spline.HostReads
	Out    spline.HostWrites
	State  spline.State
}

// Host owns one simulated connection: its spline Controller, State, and
// the synthetic link feeding it samples.
type Host struct {
	Name string

	ctrl *spline.Controller
	st   spline.State
	link *linkSim
	mss  uint32

	lastPacingRate uint64
}

// NewHost builds a Host named name against profile, seeded for
// reproducibility.
func NewHost(name string, profile simconfig.Profile, mss uint32, seed int64) *Host {
	ctrl := spline.NewController(newRNG(seed), splineLogger())
	h := &Host{
		Name: name,
		ctrl: ctrl,
		link: newLinkSim(profile, seed^0x5a17),
		mss:  mss,
	}
	reads := spline.HostReads{MSS: mss, SndCwndClamp: 1 << 30}
	ctrl.Init(&h.st, reads)
	h.lastPacingRate = profile.BandwidthBps
	return h
}

// Step advances the connection by one round: the link produces a sample
// from the previously installed pacing rate and cwnd, and Controller.OnAck
// consumes it. A panic inside the core is logged and re-raised, matching
// the teacher's SendController.OnAck boundary — a Host is not expected to
// survive a core panic, only to report it clearly first.
func (h *Host) Step(idx int) (round Round) {
	defer func() {
		if r := recover(); r != nil {
			debugLogger.Error("panic in simhost.Host.Step",
				zap.String("conn", h.Name),
				zap.Int("round", idx),
				zap.String("panic", fmt.Sprintf("%v", r)),
			)
			panic(r)
		}
	}()

	sample, reads := h.link.step(h.lastPacingRate, h.st.CurrCwnd, h.mss)
	reads.SndCwnd = h.st.CurrCwnd / h.mss

	writes := h.ctrl.OnAck(&h.st, sample, reads)
	h.lastPacingRate = writes.PacingRate

	return Round{Index: idx, Sample: sample, Reads: reads, Out: writes, State: h.st}
}

// State returns a copy of the connection's current spline state, for
// callers that want to inspect it between Step calls.
func (h *Host) State() spline.State {
	return h.st
}
