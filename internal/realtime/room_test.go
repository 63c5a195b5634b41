package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRoomID(t *testing.T) {
	t.Run("commutative for any pair", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			a := uuid.NewString()
			b := uuid.NewString()
			assert.Equal(t, RoomID(a, b), RoomID(b, a))
		}
	})

	t.Run("sorted lexicographically", func(t *testing.T) {
		assert.Equal(t, "alpha|beta", RoomID("beta", "alpha"))
		assert.Equal(t, "alpha|beta", RoomID("alpha", "beta"))
	})

	t.Run("distinct pairs get distinct rooms", func(t *testing.T) {
		assert.NotEqual(t, RoomID("a", "b"), RoomID("a", "c"))
	})
}
