package spline

import "testing"

func TestPacingRateCappedAtHostMax(t *testing.T) {
	s := &State{BW: 1 << 31, PacingGain: pacingGainProbeBW}
	reads := HostReads{MSS: minSegmentSize, MaxPacingRate: 1000}

	got := pacingRate{}.compute(s, reads)
	if got > 1000 {
		t.Fatalf("pacing rate %d exceeds host max_pacing_rate 1000", got)
	}
}

func TestPacingRateUsesLTBwWhenActive(t *testing.T) {
	s := &State{BW: 999999, LTBw: 5000, LTUseBW: true, PacingGain: pacingGainProbeBW}
	reads := HostReads{MSS: minSegmentSize}

	withLT := pacingRate{}.compute(s, reads)

	s2 := *s
	s2.LTUseBW = false
	withoutLT := pacingRate{}.compute(&s2, reads)

	if withLT == withoutLT {
		t.Fatal("lt_use_bw should change the rate computation by substituting lt_bw and unity gain")
	}
}

func TestPacingInstallMonotonicNonDecrease(t *testing.T) {
	got := pacingRate{}.install(1000, 500, false)
	if got != 1000 {
		t.Fatalf("a smaller candidate must not replace the installed rate, got %d", got)
	}

	got = pacingRate{}.install(1000, 2000, false)
	if got != 2000 {
		t.Fatalf("a larger candidate must replace the installed rate, got %d", got)
	}
}

func TestPacingInstallFirstInitBypassesMonotonicity(t *testing.T) {
	got := pacingRate{}.install(1000, 10, true)
	if got != 10 {
		t.Fatalf("first-time init must install the candidate regardless of the prior value, got %d", got)
	}
}
