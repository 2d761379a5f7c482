package spline

import "testing"

func TestGainSelectorTableByMode(t *testing.T) {
	s := &State{CurrentMode: ModeDrain, ackDrivenBW: 100000, CurrRTT: 50000, CurrAck: 1000}
	gainSelector{}.update(s)

	if s.PacingGain != pacingGainDrain {
		t.Fatalf("DRAIN pacing_gain = %d, want %d", s.PacingGain, pacingGainDrain)
	}
	if s.CwndGain != drainCwndGain {
		t.Fatalf("DRAIN cwnd_gain = %d, want the fixed drain gain %d", s.CwndGain, drainCwndGain)
	}
}

func TestGainSelectorProbeBWGainClamped(t *testing.T) {
	s := &State{CurrentMode: ModeProbeBW, ackDrivenBW: minBW, CurrRTT: minRTTUs, CurrAck: 1 << 30}
	gainSelector{}.update(s)

	if s.PacingGain != pacingGainProbeBW {
		t.Fatalf("PROBE_BW pacing_gain = %d, want %d", s.PacingGain, pacingGainProbeBW)
	}
	if s.CwndGain < cwndGainMin || s.CwndGain > cwndGainMax {
		t.Fatalf("cwnd_gain %d escaped its clamp bounds", s.CwndGain)
	}
}

func TestGainSelectorLTUseBWForcesUnityPacing(t *testing.T) {
	s := &State{CurrentMode: ModeProbeBW, LTUseBW: true, ackDrivenBW: 100000, CurrRTT: 50000, CurrAck: 1000}
	gainSelector{}.update(s)

	if s.PacingGain != bbrScale {
		t.Fatalf("pacing_gain must be 1.0 (%d) whenever lt_use_bw, got %d", bbrScale, s.PacingGain)
	}
}

func TestCwndGainClampLowerBound(t *testing.T) {
	s := &State{ackDrivenBW: 1 << 30, CurrRTT: minRTTUs, CurrAck: 0}
	got := gainSelector{}.cwndGain(s)
	if got < cwndGainMin {
		t.Fatalf("cwnd_gain %d below the clamp floor %d", got, cwndGainMin)
	}
}
