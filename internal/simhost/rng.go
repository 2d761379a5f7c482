package simhost

import "math/rand"

// lockedRNG adapts math/rand to spline.PRNG. Each Host owns one instance;
// it is never shared across connections, so it takes no lock (a
// math/rand.Rand built from NewSource is not safe for concurrent use).
type lockedRNG struct {
	r *rand.Rand
}

// newRNG builds a PRNG seeded from seed; the same seed reproduces the same
// epoch-randomisation sequence.
func newRNG(seed int64) *lockedRNG {
	return &lockedRNG{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRNG) Next32(bound uint32) uint32 {
	if bound == 0 {
		return 0
	}
	return uint32(l.r.Int63n(int64(bound)))
}
