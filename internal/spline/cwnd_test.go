package spline

import "testing"

func TestMul3SatU32Saturates(t *testing.T) {
	got := mul3SatU32(1<<32-1, 1<<32-1, 2)
	if got != 1<<32-1 {
		t.Fatalf("mul3SatU32 should saturate at MaxUint32, got %d", got)
	}
}

func TestMul3SatU32Exact(t *testing.T) {
	if got := mul3SatU32(2, 3, 4); got != 24 {
		t.Fatalf("mul3SatU32(2,3,4) = %d, want 24", got)
	}
}

func TestBdpCeilRoundsUp(t *testing.T) {
	// Pick values whose product isn't a clean multiple of 2^48 so the
	// ceiling behaviour is exercised.
	got := bdpCeil(minBW, minRTTUs, cwndGainMin)
	if got == 0 {
		t.Fatal("bdp of non-zero inputs must not collapse to 0")
	}
}

func TestCwndEngineOutputNeverZero(t *testing.T) {
	s := &State{
		CurrCwnd:    20000,
		LastMinRTT:  50000,
		CurrRTT:     50000,
		FairnessRat: fairnessRatMin,
		CwndGain:    cwndGainMin,
		ackDrivenBW: minBW,
	}
	reads := HostReads{MSS: minSegmentSize, SndCwndClamp: 1_000_000}
	sample := Sample{AckedSacked: 0}

	next := cwndEngine{}.update(s, sample, reads, threshTF+1)
	if next == 0 {
		t.Fatal("cwndEngine.update must never collapse cwnd to 0")
	}
}

func TestCwndEngineBacksOffUnderHighLossCount(t *testing.T) {
	base := &State{
		CurrCwnd: 1_000_000, LastMinRTT: 50000, CurrRTT: 50000,
		FairnessRat: fairnessRatMin, CwndGain: cwndGainMax, ackDrivenBW: 1_000_000,
		LossCnt: 0,
	}
	reads := HostReads{MSS: minSegmentSize, SndCwndClamp: 10_000_000}
	sample := Sample{}

	lowLoss := *base
	lowLoss.LossCnt = 0
	cwndLowLoss := cwndEngine{}.update(&lowLoss, sample, reads, threshTF+1)

	highLoss := *base
	highLoss.LossCnt = 11
	cwndHighLoss := cwndEngine{}.update(&highLoss, sample, reads, threshTF+1)

	if cwndHighLoss > cwndLowLoss {
		t.Fatalf("a high loss_cnt backoff should not produce a larger cwnd (%d) than the low-loss case (%d)", cwndHighLoss, cwndLowLoss)
	}
}
