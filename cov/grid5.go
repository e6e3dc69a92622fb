package cov

// Counts5 holds per-base observed-base tallies in channel order
// A, C, G, T, N.
type Counts5 [5]float64

// Sum returns the total of all five channels.
func (c Counts5) Sum() float64 {
	return c[0] + c[1] + c[2] + c[3] + c[4]
}

type refBlocks5 struct {
	name   string
	length uint32
	blocks [][]Counts5
	mutex  []mutexStripe
}

func newRefBlocks5(name string, length, blockSize uint32, mutexShift uint) refBlocks5 {
	nBlocks := blockCountFor(length, blockSize)
	nMutex := uint32(0)
	if nBlocks > 0 {
		nMutex = (nBlocks-1)>>mutexShift + 1
	}
	return refBlocks5{
		name:   name,
		length: length,
		blocks: make([][]Counts5, nBlocks),
		mutex:  make([]mutexStripe, nMutex),
	}
}

// Grid5 is a sharded, sparse, strand-separated, five-channel (A/C/G/T/N)
// counter grid used by the mutation caller. Internally each reference gets
// two independent block sets, one per strand.
type Grid5 struct {
	blockShift uint
	blockSize  uint32
	mutexShift uint
	fwd        []refBlocks5
	rev        []refBlocks5
}

// OpenGrid5 allocates a Grid5 for the given references.
func OpenGrid5(names []string, lengths []uint32, blockShift, mutexShift uint) *Grid5 {
	g := &Grid5{
		blockShift: blockShift,
		blockSize:  1 << blockShift,
		mutexShift: mutexShift,
		fwd:        make([]refBlocks5, len(names)),
		rev:        make([]refBlocks5, len(names)),
	}
	for i, name := range names {
		g.fwd[i] = newRefBlocks5(name, lengths[i], g.blockSize, mutexShift)
		g.rev[i] = newRefBlocks5(name, lengths[i], g.blockSize, mutexShift)
	}
	return g
}

func (g *Grid5) side(refID int, strand byte) *refBlocks5 {
	if strand == '-' {
		return &g.rev[refID]
	}
	return &g.fwd[refID]
}

// NumRefs returns the number of references the grid was opened with.
func (g *Grid5) NumRefs() int { return len(g.fwd) }

// RefName returns the name of reference refID.
func (g *Grid5) RefName(refID int) string { return g.fwd[refID].name }

// RefLen returns the length of reference refID.
func (g *Grid5) RefLen(refID int) uint32 { return g.fwd[refID].length }

// BlockSize returns the configured block size.
func (g *Grid5) BlockSize() uint32 { return g.blockSize }

// BlockCount returns the number of blocks tiling reference refID.
func (g *Grid5) BlockCount(refID int) uint32 {
	return blockCountFor(g.fwd[refID].length, g.blockSize)
}

// Update increments, for every position i in the half-open range
// [start, end) of refID on the given strand, the channel named by
// channels[i-start] (0=A, 1=C, 2=G, 3=T, 4=N). len(channels) must equal
// end-start.
func (g *Grid5) Update(refID int, start, end uint32, strand byte, channels []uint8) {
	if start >= end {
		return
	}
	ref := g.side(refID, strand)
	blockIndexStart := start >> g.blockShift
	blockIndexEnd := (end - 1) >> g.blockShift
	readPos := uint32(0)
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
			block = make([]Counts5, needed)
			ref.blocks[blockIndex] = block
		}
		for i := newStart; i < newEnd; i++ {
			block[i][channels[readPos]]++
			readPos++
		}
		mutex.Unlock()
	}
}

// Block returns the block at blockIndex for (refID, strand), or nil if it
// has never been touched.
func (g *Grid5) Block(refID int, strand byte, blockIndex uint32) []Counts5 {
	return g.side(refID, strand).blocks[blockIndex]
}
