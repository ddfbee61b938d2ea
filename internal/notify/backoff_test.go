package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_GrowsAndCaps(t *testing.T) {
	b := backoff{base: time.Second, max: 30 * time.Second}

	for attempt := 0; attempt < 12; attempt++ {
		d := b.delay(attempt)

		// The pre-jitter target is base*2^attempt capped at max; the
		// jittered value stays within [50%, 150%) of it, also capped.
		target := time.Second << uint(attempt)
		if target > 30*time.Second {
			target = 30 * time.Second
		}

		assert.GreaterOrEqual(t, d, target/2, "attempt %d", attempt)
		assert.LessOrEqual(t, d, 30*time.Second, "attempt %d", attempt)
	}
}

func TestBackoff_FirstDelayNearBase(t *testing.T) {
	b := backoff{base: 100 * time.Millisecond, max: time.Second}

	for i := 0; i < 50; i++ {
		d := b.delay(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.Less(t, d, 150*time.Millisecond)
	}
}
