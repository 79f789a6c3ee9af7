package id

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderUniqueAndSorted(t *testing.T) {
	t.Parallel()

	const n = 500
	ids := make([]string, n)
	seen := make(map[string]bool, n)
	for i := range ids {
		ids[i] = NewOrder()
		assert.False(t, seen[ids[i]], "duplicate id %s", ids[i])
		seen[ids[i]] = true
		assert.True(t, IsOrder(ids[i]))
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestIsOrder(t *testing.T) {
	t.Parallel()

	assert.False(t, IsOrder(""))
	assert.False(t, IsOrder("ORD-"))
	assert.False(t, IsOrder("01J9Z3K4X5W6V7T8S9R0QPNMKH"))
	assert.False(t, IsOrder("ORD-not-a-ulid"))
}

func TestNewOrderConcurrent(t *testing.T) {
	t.Parallel()

	const workers, per = 8, 200
	var (
		wg   sync.WaitGroup
		lock sync.Mutex
		seen = make(map[string]bool, workers*per)
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				id := NewOrder()
				lock.Lock()
				seen[id] = true
				lock.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*per)
}
