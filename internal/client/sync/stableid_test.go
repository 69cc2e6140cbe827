package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Pinned vectors: any reimplementation must reproduce these bit-for-bit,
// otherwise paired devices stop agreeing on remote keys.
func TestStableID_PinnedVectors(t *testing.T) {
	tests := []struct {
		ts   int64
		want string
	}{
		{1, "c4ca4238a0b923820dcc509a6f75849b"},
		{1000, "a9b7ba70783b617e9998dc4dd82eb3c5"},
		{1700000000000, "faa48af05e71e97fade8497f01a2bddf"},
		{1718000000123, "e511935b2bf254e8dedf8be8eadc1b3e"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StableID(tt.ts))
	}
}

func TestStableID_Deterministic(t *testing.T) {
	assert.Equal(t, StableID(42), StableID(42))
	assert.NotEqual(t, StableID(42), StableID(43))
}

func TestStableID_Shape(t *testing.T) {
	id := StableID(123456789)
	assert.Len(t, id, 32)
	assert.Equal(t, id, StableID(123456789))
}
