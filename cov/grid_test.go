package cov

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridLazyAllocation(t *testing.T) {
	g := Open([]string{"chr1"}, []uint32{100}, 4, 0) // blockSize=16

	assert.Nil(t, g.Block(0, 0), "untouched block must stay nil")
	assert.Equal(t, uint32(16), g.BlockSize())
	assert.Equal(t, uint32(7), g.BlockCount(0)) // ceil(100/16)
}

func TestGridUpdateWithinOneBlock(t *testing.T) {
	g := Open([]string{"chr1"}, []uint32{100}, 4, 0)
	g.Update(0, 2, 5)

	block := g.Block(0, 0)
	assert.NotNil(t, block)
	assert.Equal(t, []uint32{0, 0, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, block)
}

func TestGridUpdateAcrossBlockBoundary(t *testing.T) {
	g := Open([]string{"chr1"}, []uint32{100}, 4, 0) // blockSize=16
	g.Update(0, 14, 18)                              // spans block 0 (14,15) and block 1 (16,17)

	b0 := g.Block(0, 0)
	b1 := g.Block(0, 1)
	assert.Equal(t, uint32(1), b0[14])
	assert.Equal(t, uint32(1), b0[15])
	assert.Equal(t, uint32(1), b1[0])
	assert.Equal(t, uint32(1), b1[1])
	assert.Equal(t, uint32(0), b1[2])
}

func TestGridLastBlockIsTruncated(t *testing.T) {
	g := Open([]string{"chr1"}, []uint32{20}, 4, 0) // blockSize=16, length=20 -> last block has 4 positions
	g.Update(0, 16, 20)

	last := g.Block(0, 1)
	assert.Len(t, last, 4)
}

func TestGridRepeatedUpdatesAccumulate(t *testing.T) {
	g := Open([]string{"chr1"}, []uint32{100}, 4, 0)
	for i := 0; i < 5; i++ {
		g.Update(0, 0, 16)
	}
	block := g.Block(0, 0)
	for _, v := range block {
		assert.Equal(t, uint32(5), v)
	}
}

func TestGridConcurrentUpdatesMatchSerial(t *testing.T) {
	const workers = 8
	ranges := [][2]uint32{{0, 16}, {10, 50}, {30, 31}, {60, 100}, {0, 100}}

	serial := Open([]string{"chr1"}, []uint32{100}, 4, 1)
	for i := 0; i < workers; i++ {
		for _, r := range ranges {
			serial.Update(0, r[0], r[1])
		}
	}

	concurrent := Open([]string{"chr1"}, []uint32{100}, 4, 1)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, r := range ranges {
				concurrent.Update(0, r[0], r[1])
			}
		}()
	}
	wg.Wait()

	for blockIndex := uint32(0); blockIndex < serial.BlockCount(0); blockIndex++ {
		assert.Equal(t, serial.Block(0, blockIndex), concurrent.Block(0, blockIndex), "block %d", blockIndex)
	}
}

func TestGridMultipleReferencesAreIndependent(t *testing.T) {
	g := Open([]string{"chr1", "chr2"}, []uint32{100, 50}, 4, 0)
	g.Update(0, 0, 4)
	g.Update(1, 0, 4)

	assert.NotNil(t, g.Block(0, 0))
	assert.NotNil(t, g.Block(1, 0))
	assert.Equal(t, "chr1", g.RefName(0))
	assert.Equal(t, "chr2", g.RefName(1))
	assert.Equal(t, uint32(100), g.RefLen(0))
	assert.Equal(t, uint32(50), g.RefLen(1))
}
