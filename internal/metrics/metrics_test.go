package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	var c Counter

	c.Inc()
	c.Inc()
	c.Add(3)

	assert.Equal(t, uint64(5), c.Load())
}

func TestCounter_Concurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(5000), c.Load())
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	assert.GreaterOrEqual(t, timer.Duration().Nanoseconds(), int64(0))
}

func TestWebhookStats_Snapshot(t *testing.T) {
	var s WebhookStats
	s.Batches.Inc()
	s.Received.Add(3)
	s.Duplicates.Inc()
	s.Processed.Add(2)
	s.Failed.Inc()

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap["batches"])
	assert.Equal(t, uint64(3), snap["received"])
	assert.Equal(t, uint64(1), snap["duplicates"])
	assert.Equal(t, uint64(2), snap["processed"])
	assert.Equal(t, uint64(1), snap["failed"])
	assert.Equal(t, uint64(0), snap["rejected"])
}
