package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingBuffer_FIFOAndEviction(t *testing.T) {
	b := NewRingBuffer[int](3)
	for i := 1; i <= 3; i++ {
		assert.False(t, b.Enqueue(i))
	}
	assert.True(t, b.Enqueue(4))
	assert.Equal(t, int64(1), b.Dropped())

	assert.Equal(t, []int{2, 3}, b.DequeueBatch(2))
	assert.Equal(t, []int{4}, b.DequeueBatch(10))
	assert.Nil(t, b.DequeueBatch(1))
	assert.Equal(t, 0, b.Len())
}

func TestRingBuffer_DefaultCapacity(t *testing.T) {
	b := NewRingBuffer[string](0)
	b.Enqueue("x")
	assert.Equal(t, 1, b.Len())
}
