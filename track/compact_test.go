package track

import (
	"testing"

	"github.com/liuar6/samvt/cov"
	"github.com/stretchr/testify/assert"
)

func TestCompactUnallocatedBlockIsOneZeroRun(t *testing.T) {
	g := cov.Open([]string{"chr1"}, []uint32{16}, 4, 0) // blockSize=16, one block
	runs := Compact(g, 0, 0, 1)
	assert.Equal(t, []Interval{{Start: 0, End: 16, Value: 0}}, runs)
}

func TestCompactSplitsOnValueChange(t *testing.T) {
	g := cov.Open([]string{"chr1"}, []uint32{16}, 4, 0)
	g.Update(0, 4, 10) // positions 4..9 get depth 1

	runs := Compact(g, 0, 0, 1)
	assert.Equal(t, []Interval{
		{Start: 0, End: 4, Value: 0},
		{Start: 4, End: 10, Value: 1},
		{Start: 10, End: 16, Value: 0},
	}, runs)
}

func TestCompactMergesAcrossBlockBoundaryWhenEqual(t *testing.T) {
	g := cov.Open([]string{"chr1"}, []uint32{32}, 4, 0) // two blocks of 16
	g.Update(0, 12, 20)                                 // spans blocks 0 and 1, uniform depth 1

	runs := Compact(g, 0, 0, 2)
	assert.Equal(t, []Interval{
		{Start: 0, End: 12, Value: 0},
		{Start: 12, End: 20, Value: 1},
		{Start: 20, End: 32, Value: 0},
	}, runs)
}

func TestCompactClipsToReferenceLength(t *testing.T) {
	g := cov.Open([]string{"chr1"}, []uint32{20}, 4, 0) // blockSize=16, length 20: last block has only 4 positions
	g.Update(0, 16, 20)

	runs := Compact(g, 0, 0, 2)
	assert.Equal(t, []Interval{
		{Start: 0, End: 16, Value: 0},
		{Start: 16, End: 20, Value: 1},
	}, runs)
}

func TestCompactWholeReferenceUniformRun(t *testing.T) {
	g := cov.Open([]string{"chr1"}, []uint32{16}, 4, 0)
	g.Update(0, 0, 16)

	runs := Compact(g, 0, 0, 1)
	assert.Equal(t, []Interval{{Start: 0, End: 16, Value: 1}}, runs)
}
