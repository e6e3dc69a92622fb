// Package cov implements the sharded, lazily-allocated counter grids used to
// accumulate per-base statistics across a genome: a scalar depth grid for
// coverage tracks, and a five-channel (A, C, G, T, N) grid for mutation
// calling. Both grids tile each reference into fixed-size blocks that are
// allocated only when first touched, and protect block access with a small,
// striped set of mutexes rather than one mutex per reference.
package cov

import "sync"

// DefaultBlockShift is the default base-2 log of the number of positions per
// block (4096 positions/block).
const DefaultBlockShift = 12

// DefaultMutexShift is the default base-2 log of the number of blocks
// covered by a single stripe mutex (one mutex per 2 blocks).
const DefaultMutexShift = 1

// mutexStripe pads a sync.Mutex out to a cache line so that adjacent
// stripes don't false-share under contention.
type mutexStripe struct {
	sync.Mutex
	_ [56]byte
}

type refBlocks struct {
	name   string
	length uint32
	blocks [][]uint32
	mutex  []mutexStripe
}

func blockCountFor(length, blockSize uint32) uint32 {
	if length == 0 {
		return 0
	}
	return (length-1)/blockSize + 1
}

func newRefBlocks(name string, length, blockSize uint32, mutexShift uint) refBlocks {
	nBlocks := blockCountFor(length, blockSize)
	nMutex := uint32(0)
	if nBlocks > 0 {
		nMutex = (nBlocks-1)>>mutexShift + 1
	}
	return refBlocks{
		name:   name,
		length: length,
		blocks: make([][]uint32, nBlocks),
		mutex:  make([]mutexStripe, nMutex),
	}
}

// Grid is a sharded, sparse, genome-wide counter of per-base depth.
// Positions are 0-based; Update takes a half-open [start, end) range.
type Grid struct {
	blockShift uint
	blockSize  uint32
	mutexShift uint
	refs       []refBlocks
}

// Open allocates a Grid for the given references. blockShift and mutexShift
// are exposed (rather than hardcoded) so tests can exercise small blocks;
// production callers should pass DefaultBlockShift/DefaultMutexShift.
func Open(names []string, lengths []uint32, blockShift, mutexShift uint) *Grid {
	g := &Grid{
		blockShift: blockShift,
		blockSize:  1 << blockShift,
		mutexShift: mutexShift,
		refs:       make([]refBlocks, len(names)),
	}
	for i, name := range names {
		g.refs[i] = newRefBlocks(name, lengths[i], g.blockSize, mutexShift)
	}
	return g
}

// NumRefs returns the number of references the grid was opened with.
func (g *Grid) NumRefs() int { return len(g.refs) }

// RefName returns the name of reference refID.
func (g *Grid) RefName(refID int) string { return g.refs[refID].name }

// RefLen returns the length of reference refID.
func (g *Grid) RefLen(refID int) uint32 { return g.refs[refID].length }

// Update increments every position in the half-open range [start, end) of
// reference refID by one. It is safe for concurrent use by multiple
// goroutines, including concurrent calls that touch the same block.
func (g *Grid) Update(refID int, start, end uint32) {
	if start >= end {
		return
	}
	ref := &g.refs[refID]
	blockIndexStart := start >> g.blockShift
	blockIndexEnd := (end - 1) >> g.blockShift
	for blockIndex := blockIndexStart; blockIndex <= blockIndexEnd; blockIndex++ {
		blockStart := blockIndex << g.blockShift
		newStart := uint32(0)
		if start > blockStart {
			newStart = start - blockStart
		}
		newEnd := end - blockStart
		if newEnd > g.blockSize {
			newEnd = g.blockSize
		}
		mutex := &ref.mutex[blockIndex>>g.mutexShift]
		mutex.Lock()
		block := ref.blocks[blockIndex]
		if block == nil {
			needed := g.blockSize
			if remaining := ref.length - blockStart; remaining < needed {
				needed = remaining
			}
			block = make([]uint32, needed)
			ref.blocks[blockIndex] = block
		}
		for i := newStart; i < newEnd; i++ {
			block[i]++
		}
		mutex.Unlock()
	}
}

// Block returns the block at blockIndex for refID, or nil if it has never
// been touched. The returned slice must not be mutated; it is intended for
// read-only extraction (see package track) after ingest has finished.
func (g *Grid) Block(refID int, blockIndex uint32) []uint32 {
	return g.refs[refID].blocks[blockIndex]
}

// BlockSize returns the configured block size (1<<blockShift).
func (g *Grid) BlockSize() uint32 { return g.blockSize }

// BlockCount returns the number of blocks tiling reference refID.
func (g *Grid) BlockCount(refID int) uint32 {
	return blockCountFor(g.refs[refID].length, g.blockSize)
}
