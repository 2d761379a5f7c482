package simhost

import (
	"math"
	"math/rand"

	"github.com/spline-cc/spline/internal/simconfig"
	"github.com/spline-cc/spline/internal/spline"
)

// linkSim is a synthetic bottleneck link: it turns the sender's current
// pacing rate and cwnd into the next rate sample, the way a real kernel's
// tcp_rate.c would from socket buffer bookkeeping, but driven entirely by
// simconfig.Profile parameters instead of a NIC.
//
// It is a simulator, not a model of any specific queueing discipline: delay
// grows linearly with queue occupancy up to profile.QueueDepth, loss is
// drawn independently per round plus an overflow term once the queue is
// full, and a policed-link profile caps delivered bytes at PolicedCapBps
// regardless of how fast the sender paces.
type linkSim struct {
	profile simconfig.Profile
	rng     *rand.Rand

	queued     uint64 // bytes currently queued at the bottleneck
	delivered  uint32 // cumulative segments delivered (tp->delivered convention)
	lost       uint32 // cumulative segments lost (tp->lost convention)
	roundNowUs int64
}

func newLinkSim(profile simconfig.Profile, seed int64) *linkSim {
	return &linkSim{profile: profile, rng: rand.New(rand.NewSource(seed))}
}

// step advances the link by one RTT-ish round given the sender's current
// pacing rate and cwnd (bytes/sec and bytes respectively), returning the
// spline.Sample/HostReads pair Controller.OnAck expects next.
func (l *linkSim) step(pacingRateBps uint64, cwndBytes uint32, mss uint32) (spline.Sample, spline.HostReads) {
	jitterNs := int64(l.profile.Jitter)
	jitterUs := int64(0)
	if jitterNs > 0 {
		jitterUs = l.rng.Int63n(2*jitterNs/1000+1) - jitterNs/1000
	}
	baseRTTUs := l.profile.BaseRTT.Microseconds()

	bottleneck := l.profile.BandwidthBps
	if l.profile.PolicedCapBps > 0 && l.profile.PolicedCapBps < bottleneck {
		bottleneck = l.profile.PolicedCapBps
	}

	offered := pacingRateBps
	if offered == 0 {
		offered = bottleneck
	}

	// Bytes this round, paced at min(offered, what cwnd allows).
	intervalUs := int64(baseRTTUs + jitterUs)
	if intervalUs <= 0 {
		intervalUs = baseRTTUs
	}
	roundBytes := uint64(math.Min(float64(offered)*float64(intervalUs)/1e6, float64(cwndBytes)))

	// Queueing delay: excess demand over the bottleneck rate accumulates in
	// the queue up to QueueDepth, after which it overflows as loss.
	excess := int64(roundBytes) - int64(bottleneck)*intervalUs/1e6
	var queueDelayUs int64
	var overflowBytes uint64
	if excess > 0 {
		l.queued += uint64(excess)
		if l.queued > uint64(l.profile.QueueDepth) {
			overflowBytes = l.queued - uint64(l.profile.QueueDepth)
			l.queued = uint64(l.profile.QueueDepth)
		}
		if bottleneck > 0 {
			queueDelayUs = int64(l.queued) * 1_000_000 / int64(bottleneck)
		}
	} else if l.queued > 0 {
		drain := uint64(-excess)
		if drain > l.queued {
			l.queued = 0
		} else {
			l.queued -= drain
		}
	}

	// Only what the bottleneck carries this round is delivered; the excess
	// was queued or overflowed above.
	delivered := roundBytes
	if capBytes := bottleneck * uint64(intervalUs) / 1_000_000; delivered > capBytes {
		delivered = capBytes
	}
	lostBytes := overflowBytes
	if l.rng.Float64() < l.profile.Loss {
		lossFrac := 0.05 + l.rng.Float64()*0.10
		extra := uint64(float64(delivered) * lossFrac)
		lostBytes += extra
		if extra > delivered {
			delivered = 0
		} else {
			delivered -= extra
		}
	}

	deliveredSegs := uint32(delivered / uint64(mss))
	lostSegs := uint32(lostBytes / uint64(mss))

	l.delivered += deliveredSegs
	l.lost += lostSegs
	l.roundNowUs += intervalUs + queueDelayUs

	sample := spline.Sample{
		Delivered:      int32(deliveredSegs),
		IntervalUs:     intervalUs + queueDelayUs,
		RTTUs:          baseRTTUs + jitterUs + queueDelayUs,
		AckedSacked:    deliveredSegs,
		PriorInFlight:  uint32(math.Min(float64(cwndBytes), float64(roundBytes))),
		PriorDelivered: l.delivered * mss,
		Losses:         lostSegs > 0,
		IsAppLimited:   roundBytes < uint64(cwndBytes)/2,
		IsAckDelayed:   false,
	}

	reads := spline.HostReads{
		SRTTUs:        uint32((baseRTTUs + jitterUs + queueDelayUs) * 8),
		MSS:           mss,
		Delivered:     l.delivered,
		Lost:          l.lost,
		SndCwndClamp:  1 << 30,
		MaxPacingRate: 0,
		CAState:       spline.CAOpen,
		NowNs:         l.roundNowUs * 1000,
	}
	if sample.Losses {
		reads.CAState = spline.CALoss
	}
	return sample, reads
}
