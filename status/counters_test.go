package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersGetIsStable(t *testing.T) {
	c := NewCounters()
	a := c.Get(Matches)
	assert.Same(t, a, c.Get(Matches))
	assert.Zero(t, c.Value(Shuffles))
}

func TestCountersConcurrentInc(t *testing.T) {
	c := NewCounters()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Inc(Ticks)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(8000), c.Value(Ticks))
}

func TestCountersRangeOrder(t *testing.T) {
	c := NewCounters()
	c.Inc(Swaps)
	c.Get(Consumed).Add(3)
	c.Inc(Matches)

	var keys []string
	c.Range(func(key string, _ int64) {
		keys = append(keys, key)
	})
	assert.Equal(t, []string{Swaps, Matches, Consumed}, keys)
	assert.Equal(t, map[string]int64{Swaps: 1, Matches: 1, Consumed: 3}, c.Snapshot())
}
