// Package track turns a finished cov.Grid into runs of constant value
// (the "run compaction" step) and stitches those runs across the windows
// they were computed in, then serializes the result as a small binary
// indexed track format on top of recordio. It also implements the ordered,
// parallel driver that produces and writes those runs.
package track

import "github.com/liuar6/samvt/cov"

// Interval is a maximal run of constant coverage value.
type Interval struct {
	Start, End uint32
	Value      float32
}

// Compact scans the blocks [blockIndexStart, blockIndexEnd) of reference
// refID and returns the maximal runs of constant value across that range,
// clipped to the reference's length. An unallocated block is treated as a
// run of zeros spanning its full width, letting Compact skip most of an
// unallocated region in one step rather than one position at a time.
//
// The scan holds a current value, extends the run while the next position
// matches it, closes the run on any change, and skips whole unallocated
// blocks in one step.
func Compact(g *cov.Grid, refID int, blockIndexStart, blockIndexEnd uint32) []Interval {
	blockSize := g.BlockSize()
	refLen := g.RefLen(refID)
	rangeEnd := blockIndexEnd * blockSize
	if rangeEnd > refLen {
		rangeEnd = refLen
	}

	var runs []Interval
	pos := blockIndexStart * blockSize
	haveRun := false
	var curStart uint32
	var curVal uint32

	closeRun := func(end uint32) {
		if haveRun {
			runs = append(runs, Interval{Start: curStart, End: end, Value: float32(curVal)})
		}
	}

	for blockIndex := blockIndexStart; blockIndex < blockIndexEnd && pos < rangeEnd; blockIndex++ {
		blockStart := blockIndex * blockSize
		blockEnd := blockStart + blockSize
		if blockEnd > rangeEnd {
			blockEnd = rangeEnd
		}
		block := g.Block(refID, blockIndex)
		if block == nil {
			if !haveRun || curVal != 0 {
				closeRun(pos)
				haveRun = true
				curStart = pos
				curVal = 0
			}
			pos = blockEnd
			continue
		}
		for i := pos - blockStart; pos < blockEnd; i, pos = i+1, pos+1 {
			v := block[i]
			if !haveRun {
				haveRun = true
				curStart = pos
				curVal = v
				continue
			}
			if v != curVal {
				closeRun(pos)
				curStart = pos
				curVal = v
			}
		}
	}
	closeRun(pos)
	return runs
}
