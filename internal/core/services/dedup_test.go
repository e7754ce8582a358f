package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avelin/estate-notify/internal/core/services"
)

func TestDedupFilter_ShouldProcess(t *testing.T) {
	t.Run("novel key is processed", func(t *testing.T) {
		f := services.NewDedupFilter(10)

		assert.True(t, f.ShouldProcess("new_message|2024-01-01T00:00:00Z|u1"))
		assert.Equal(t, 1, f.Len())
	})

	t.Run("duplicate key is suppressed", func(t *testing.T) {
		f := services.NewDedupFilter(10)

		assert.True(t, f.ShouldProcess("k1"))
		assert.False(t, f.ShouldProcess("k1"))
		assert.False(t, f.ShouldProcess("k1"))
		assert.Equal(t, 1, f.Len())
	})

	t.Run("duplicate leaves state unchanged", func(t *testing.T) {
		f := services.NewDedupFilter(2)

		assert.True(t, f.ShouldProcess("k1"))
		assert.True(t, f.ShouldProcess("k2"))

		// Re-touching k1 must not refresh its position: eviction is FIFO by
		// insertion, not LRU by access.
		assert.False(t, f.ShouldProcess("k1"))

		assert.True(t, f.ShouldProcess("k3")) // evicts k1, the oldest
		assert.True(t, f.ShouldProcess("k1"))
	})
}

func TestDedupFilter_FIFOEviction(t *testing.T) {
	const capacity = 5

	f := services.NewDedupFilter(capacity)

	for i := 0; i < capacity; i++ {
		assert.True(t, f.ShouldProcess(fmt.Sprintf("key-%d", i)))
	}
	assert.Equal(t, capacity, f.Len())

	// Inserting key capacity+1 evicts the first-inserted key.
	assert.True(t, f.ShouldProcess("key-overflow"))
	assert.Equal(t, capacity, f.Len())

	// key-0 is eligible for redelivery again; key-1 is still retained.
	assert.True(t, f.ShouldProcess("key-0"))
	assert.False(t, f.ShouldProcess("key-2"))
}

func TestDedupFilter_Clear(t *testing.T) {
	f := services.NewDedupFilter(4)

	assert.True(t, f.ShouldProcess("k1"))
	assert.True(t, f.ShouldProcess("k2"))

	f.Clear()

	assert.Equal(t, 0, f.Len())
	assert.True(t, f.ShouldProcess("k1"))
}

func TestDedupFilter_DefaultCapacity(t *testing.T) {
	f := services.NewDedupFilter(0)

	for i := 0; i < services.DefaultDedupCapacity; i++ {
		assert.True(t, f.ShouldProcess(fmt.Sprintf("key-%d", i)))
	}
	assert.Equal(t, services.DefaultDedupCapacity, f.Len())
}
