package notify

import (
	"math/rand/v2"
	"time"
)

// backoff computes capped exponential reconnect delays with jitter.
// The source product reconnected never; redelivery is safe here because
// the synchronizer deduplicates by notification id, so an aggressive
// retry costs at most duplicate pushes that get dropped.
type backoff struct {
	base time.Duration
	max  time.Duration
}

// delay returns the wait before reconnect attempt n (0-based):
// base*2^n capped at max, then jittered to [50%, 150%) of that value
// so a fleet of clients does not reconnect in lockstep.
func (b backoff) delay(attempt int) time.Duration {
	d := b.base
	for i := 0; i < attempt && d < b.max; i++ {
		d *= 2
	}
	if d > b.max {
		d = b.max
	}

	jittered := d/2 + rand.N(d)
	if jittered > b.max {
		jittered = b.max
	}
	return jittered
}
