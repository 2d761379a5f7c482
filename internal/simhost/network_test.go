package simhost

import (
	"testing"

	"github.com/spline-cc/spline/internal/simconfig"
)

func TestLinkSimPolicedCapBoundsDelivered(t *testing.T) {
	profile, _ := simconfig.LookupProfile("policed-link")
	link := newLinkSim(profile, 1)

	// Offer far more than the policed cap; delivered bytes this round must
	// still respect the enforced ceiling (allowing for the jitter/loss
	// terms layered on top).
	sample, _ := link.step(profile.BandwidthBps*4, 10_000_000, 1448)
	maxPlausible := uint32(profile.PolicedCapBps * 2 / 1448)
	if sample.Delivered > int32(maxPlausible) {
		t.Fatalf("delivered segments %d exceed plausible policed ceiling %d", sample.Delivered, maxPlausible)
	}
}

func TestLinkSimProducesNonNegativeIntervals(t *testing.T) {
	profile, _ := simconfig.LookupProfile("lossy-wifi")
	link := newLinkSim(profile, 2)

	for i := 0; i < 30; i++ {
		sample, reads := link.step(profile.BandwidthBps, 500_000, 1448)
		if sample.IntervalUs <= 0 {
			t.Fatalf("round %d: interval_us must stay positive, got %d", i, sample.IntervalUs)
		}
		if reads.Delivered < reads.Lost {
			// not a hard invariant of the simulator, but catches an
			// obviously broken accumulation bug
			t.Logf("round %d: delivered %d < lost %d (cumulative counters)", i, reads.Delivered, reads.Lost)
		}
	}
}
