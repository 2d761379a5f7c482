package simconfig

import (
	"fmt"
	"time"
)

// Profile describes one synthetic network path, adapted from the teacher's
// NetworkProfile but narrowed to the characteristics internal/simhost's
// sample generator actually needs: base RTT, jitter, loss probability, a
// bottleneck rate, and a bottleneck queue depth. Policed links additionally
// carry a hard cap that the generator enforces regardless of the advertised
// bandwidth.
type Profile struct {
	Name        string
	Description string
	BaseRTT     time.Duration
	Jitter      time.Duration
	Loss        float64 // probability in [0,1)
	BandwidthBps uint64 // steady-state bottleneck rate, bytes/sec
	PolicedCapBps uint64 // 0 unless the link enforces a hard token-bucket cap
	QueueDepth  uint32  // bytes of bufferbloat-style queueing at the bottleneck
}

var profiles = map[string]Profile{
	"clean": {
		Name:        "clean",
		Description: "Low-latency wired path with negligible loss or queueing",
		BaseRTT:     2 * time.Millisecond,
		Jitter:      200 * time.Microsecond,
		Loss:        0.00001,
		BandwidthBps: 125_000_000, // 1 Gbit/s
		QueueDepth:  32 * 1024,
	},
	"lossy-wifi": {
		Name:        "lossy-wifi",
		Description: "Consumer WiFi with random loss and moderate jitter",
		BaseRTT:     20 * time.Millisecond,
		Jitter:      8 * time.Millisecond,
		Loss:        0.03,
		BandwidthBps: 6_250_000, // 50 Mbit/s
		QueueDepth:  64 * 1024,
	},
	"bufferbloat-wan": {
		Name:        "bufferbloat-wan",
		Description: "Consumer WAN uplink with a deep, undersized-AQM bottleneck queue",
		BaseRTT:     40 * time.Millisecond,
		Jitter:      5 * time.Millisecond,
		Loss:        0.002,
		BandwidthBps: 1_250_000, // 10 Mbit/s
		QueueDepth:  2 * 1024 * 1024,
	},
	"policed-link": {
		Name:        "policed-link",
		Description: "Mobile carrier link with a hard-enforced rate cap below its advertised capacity",
		BaseRTT:     60 * time.Millisecond,
		Jitter:      15 * time.Millisecond,
		Loss:        0.01,
		BandwidthBps: 25_000_000, // advertised 200 Mbit/s
		PolicedCapBps: 1_875_000, // enforced 15 Mbit/s
		QueueDepth:  128 * 1024,
	},
}

// LookupProfile returns the named preset or an error listing the valid
// names.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown network profile %q, want one of %v", name, ProfileNames())
	}
	return p, nil
}

// ProfileNames lists the available preset names in a stable order.
func ProfileNames() []string {
	return []string{"clean", "lossy-wifi", "bufferbloat-wan", "policed-link"}
}
