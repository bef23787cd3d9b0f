package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializesPerKey(t *testing.T) {
	locks := New()

	const iterations = 200
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				locks.Lock("ada@example.com")
				counter++
				locks.Unlock("ada@example.com")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8*iterations, counter)
}

func TestIndependentKeysDoNotBlock(t *testing.T) {
	locks := New()
	locks.Lock("a")

	done := make(chan struct{})
	go func() {
		locks.Lock("b")
		locks.Unlock("b")
		close(done)
	}()
	<-done

	locks.Unlock("a")
}

func TestEntriesAreReclaimed(t *testing.T) {
	locks := New()
	locks.Lock("a")
	locks.Unlock("a")

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.entries, "released keys must not accumulate")
}

func TestUnlockOfUnheldKeyPanics(t *testing.T) {
	locks := New()
	assert.Panics(t, func() { locks.Unlock("never-locked") })
}
