package cov

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounts5Sum(t *testing.T) {
	c := Counts5{1, 2, 3, 4, 5}
	assert.Equal(t, 15.0, c.Sum())
}

func TestGrid5StrandsAreIndependent(t *testing.T) {
	g := OpenGrid5([]string{"chr1"}, []uint32{100}, 4, 0)
	g.Update(0, 0, 4, '+', []uint8{0, 0, 1, 2}) // A A C G
	g.Update(0, 0, 4, '-', []uint8{3, 3, 3, 3}) // T T T T

	fwd := g.Block(0, '+', 0)
	rev := g.Block(0, '-', 0)
	assert.Equal(t, Counts5{1, 0, 0, 0, 0}, fwd[0])
	assert.Equal(t, Counts5{0, 1, 0, 0, 0}, fwd[2])
	assert.Equal(t, Counts5{0, 0, 0, 1, 0}, rev[0])

	// Touching only block 0 must not allocate block 1.
	assert.Nil(t, g.Block(0, '+', 1))
}

func TestGrid5UpdateAcrossBlockBoundary(t *testing.T) {
	g := OpenGrid5([]string{"chr1"}, []uint32{100}, 4, 0) // blockSize=16
	g.Update(0, 14, 18, '+', []uint8{0, 1, 2, 3})

	b0 := g.Block(0, '+', 0)
	b1 := g.Block(0, '+', 1)
	assert.Equal(t, Counts5{1, 0, 0, 0, 0}, b0[14])
	assert.Equal(t, Counts5{0, 1, 0, 0, 0}, b0[15])
	assert.Equal(t, Counts5{0, 0, 1, 0, 0}, b1[0])
	assert.Equal(t, Counts5{0, 0, 0, 1, 0}, b1[1])
}

func TestGrid5NCallForUnknownBase(t *testing.T) {
	g := OpenGrid5([]string{"chr1"}, []uint32{100}, 4, 0)
	g.Update(0, 0, 1, '+', []uint8{4})

	block := g.Block(0, '+', 0)
	assert.Equal(t, Counts5{0, 0, 0, 0, 1}, block[0])
}
