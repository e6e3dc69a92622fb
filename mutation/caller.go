// Package mutation implements the per-position base-tally caller: it walks
// a finished cov.Grid5, applies the depth/proportion threshold filter (or a
// BED-mask bypass), and formats surviving positions as TSV rows.
package mutation

import "github.com/liuar6/samvt/cov"

// Row is one output line: a called (or BED-forced) position on one strand
// of one reference, with its five-channel base tally.
type Row struct {
	RefName string
	Pos     uint32 // 1-based
	Strand  byte
	RefBase byte
	Counts  cov.Counts5
}

// ReferenceLookup extracts reference sequence for a half-open range,
// matching fastasrc.Source's signature without depending on that package.
type ReferenceLookup interface {
	Extract(name string, start, end int, strand byte) ([]byte, error)
}

// base2Chan buckets any byte other than A/C/G/T (in either case) into the
// N channel. It is
// duplicated from cigarwalk.BaseChannel rather than imported, so this
// package stays independent of the ingest-time CIGAR walker.
var base2Chan = func() [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = 4
	}
	t['A'], t['a'] = 0, 0
	t['C'], t['c'] = 1, 1
	t['G'], t['g'] = 2, 2
	t['T'], t['t'] = 3, 3
	return t
}()

// CallBlocks scans the blocks [blockStart, blockEnd) of refID on strand,
// and for every position whose total depth clears countThreshold emits a
// Row iff the non-reference proportion clears propThreshold. ref may be
// nil, in which case every position is scored against the modal base
// (the plurality channel) instead of a known reference base.
func CallBlocks(g *cov.Grid5, ref ReferenceLookup, refID int, strand byte, blockStart, blockEnd uint32, countThreshold, propThreshold float64) ([]Row, error) {
	blockSize := g.BlockSize()
	refLen := g.RefLen(refID)
	refName := g.RefName(refID)

	var rows []Row
	for blockIndex := blockStart; blockIndex < blockEnd; blockIndex++ {
		block := g.Block(refID, strand, blockIndex)
		if block == nil {
			continue
		}
		blockStartPos := blockIndex * blockSize
		blockEndPos := blockStartPos + blockSize
		if blockEndPos > refLen {
			blockEndPos = refLen
		}

		var seq []byte
		if ref != nil {
			var err error
			seq, err = ref.Extract(refName, int(blockStartPos), int(blockEndPos), '+')
			if err != nil {
				return nil, err
			}
		}

		for pos := blockStartPos; pos < blockEndPos; pos++ {
			counts := block[pos-blockStartPos]
			sum := counts.Sum()
			if sum < countThreshold {
				continue
			}
			refBase := byte('?')
			var refCount float64
			if seq != nil {
				refBase = seq[pos-blockStartPos]
			}
			if refBase != '?' {
				refCount = counts[base2Chan[refBase]]
			} else {
				refCount = counts[0]
				for c := 1; c < 5; c++ {
					if counts[c] > refCount {
						refCount = counts[c]
					}
				}
			}
			if (1 - refCount/sum) < propThreshold {
				continue
			}
			rows = append(rows, Row{RefName: refName, Pos: pos + 1, Strand: strand, RefBase: refBase, Counts: counts})
		}
	}
	return rows, nil
}
