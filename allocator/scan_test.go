package allocator

import (
	"github.com/stretchr/testify/assert"
	"math"
	"testing"
)

func TestFindContiguousFreeBlocks(t *testing.T) {
	table := []struct {
		name      string
		numBlocks uint32
		used      []uint16
		size      uint32
		expected  uint32
	}{
		{
			name:      "empty-map-single",
			numBlocks: 1,
			used:      []uint16{0},
			size:      7,
			expected:  0,
		},
		{
			name:      "empty-map-multi",
			numBlocks: 3,
			used:      []uint16{0},
			size:      7,
			expected:  0,
		},
		{
			name:      "run-starts-after-used-block",
			numBlocks: 2,
			used:      []uint16{0x1},
			size:      7,
			expected:  1,
		},
		{
			name:      "skips-too-small-gap",
			numBlocks: 2,
			used:      []uint16{0x5},
			size:      7,
			expected:  3,
		},
		{
			name:      "exact-tail-fit",
			numBlocks: 3,
			used:      []uint16{0xf},
			size:      7,
			expected:  4,
		},
		{
			name:      "counter-resets-on-used-bit",
			numBlocks: 4,
			used:      []uint16{0x8},
			size:      7,
			expected:  math.MaxUint32,
		},
		{
			name:      "not-found-too-large",
			numBlocks: 8,
			used:      []uint16{0},
			size:      7,
			expected:  math.MaxUint32,
		},
		{
			name:      "not-found-fragmented",
			numBlocks: 2,
			used:      []uint16{0x2a},
			size:      7,
			expected:  math.MaxUint32,
		},
		{
			name:      "zero-blocks",
			numBlocks: 0,
			used:      []uint16{0},
			size:      7,
			expected:  math.MaxUint32,
		},
	}

	for _, e := range table {
		t.Run(e.name, func(t *testing.T) {
			result := findContiguousFreeBlocks(e.numBlocks, e.used, e.size)
			assert.Equal(t, e.expected, result)
		})
	}
}

func TestFindContiguousFreeBlocksCrossesWords(t *testing.T) {
	used := []uint8{0x7f, 0x00}
	result := findContiguousFreeBlocks(uint16(3), used, uint16(12))
	assert.Equal(t, uint16(7), result)
}

func TestFindContiguousFreeBlocksIgnoresBitsBeyondSize(t *testing.T) {
	// bits 5 and 6 exist in the word but lie beyond the logical length
	used := []uint8{0x1f}
	result := findContiguousFreeBlocks(uint16(1), used, uint16(5))
	assert.Equal(t, uint16(math.MaxUint16), result)
}
