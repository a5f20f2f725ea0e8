package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttemptTracker_ThresholdPerIdentity(t *testing.T) {
	tracker := NewAttemptTracker(3)

	assert.False(t, tracker.ShouldRequireCaptcha("j.smith", "198.51.100.1"))

	tracker.RecordFailure("j.smith", "198.51.100.1")
	tracker.RecordFailure("j.smith", "198.51.100.2")
	assert.False(t, tracker.ShouldRequireCaptcha("j.smith", "198.51.100.3"))

	tracker.RecordFailure("j.smith", "198.51.100.3")

	// Identity counter tripped; any address now requires a captcha.
	assert.True(t, tracker.ShouldRequireCaptcha("j.smith", "198.51.100.99"))
}

func TestAttemptTracker_ThresholdPerAddress(t *testing.T) {
	tracker := NewAttemptTracker(3)

	// Three failures from one address with three different identities.
	tracker.RecordFailure("alice", "203.0.113.5")
	tracker.RecordFailure("bob", "203.0.113.5")
	tracker.RecordFailure("carol", "203.0.113.5")

	// The address gate trips even for an identity never seen before.
	assert.True(t, tracker.ShouldRequireCaptcha("dave", "203.0.113.5"))
	// Other addresses are unaffected.
	assert.False(t, tracker.ShouldRequireCaptcha("dave", "203.0.113.6"))
}

func TestAttemptTracker_ResetClearsBothCounters(t *testing.T) {
	tracker := NewAttemptTracker(3)

	for range 3 {
		tracker.RecordFailure("j.smith", "203.0.113.5")
	}
	assert.True(t, tracker.ShouldRequireCaptcha("j.smith", "203.0.113.5"))

	tracker.RecordSuccess("j.smith", "203.0.113.5")
	assert.False(t, tracker.ShouldRequireCaptcha("j.smith", "203.0.113.5"))
}

func TestAttemptTracker_IdentityKeyCaseFolded(t *testing.T) {
	tracker := NewAttemptTracker(3)

	tracker.RecordFailure("j.smith", "203.0.113.1")
	tracker.RecordFailure("J.Smith", "203.0.113.2")
	tracker.RecordFailure("j.smith@example.com", "203.0.113.3")

	assert.True(t, tracker.ShouldRequireCaptcha("J.SMITH", "203.0.113.4"))
}

func TestAttemptTracker_ConcurrentIncrements(t *testing.T) {
	tracker := NewAttemptTracker(1000)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for range 10 {
				tracker.RecordFailure(fmt.Sprintf("user-%d", i%5), "203.0.113.5")
			}
		}(i)
	}
	wg.Wait()

	// 100 goroutines x 10 failures all landed on one address counter.
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	assert.Equal(t, 1000, tracker.byClientIP["203.0.113.5"])
}
