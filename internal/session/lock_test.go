package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("session-a")
			counter++
			km.Unlock("session-a")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	km := newKeyedMutex()

	km.Lock("session-a")
	km.Unlock("session-a")
	km.Lock("session-b")
	km.Unlock("session-b")

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks, "entries should be dropped once released")
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := newKeyedMutex()

	km.Lock("session-a")

	done := make(chan struct{})
	go func() {
		km.Lock("session-b")
		km.Unlock("session-b")
		close(done)
	}()

	// A held lock on another key must not block this one
	<-done
	km.Unlock("session-a")
}
