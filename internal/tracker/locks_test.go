package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  = map[string]int{}
		maxSeen = map[string]int{}
	)
	for i := range 100 {
		key := []string{"a", "b"}[i%2]
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(key)
			defer unlock()

			mu.Lock()
			active[key]++
			if active[key] > maxSeen[key] {
				maxSeen[key] = active[key]
			}
			mu.Unlock()

			mu.Lock()
			active[key]--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen["a"])
	assert.Equal(t, 1, maxSeen["b"])
	assert.Zero(t, k.size(), "idle keys are released")
}
