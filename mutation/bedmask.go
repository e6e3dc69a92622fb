package mutation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/liuar6/samvt/cov"
)

// BedEntry is one parsed BED mask line: (chrom, start, end, strand). Extra
// columns beyond the sixth are accepted but ignored.
type BedEntry struct {
	Chrom  string
	Start  int
	End    int
	Strand byte
}

// ReadBED parses a BED file's first six columns.
func ReadBED(r io.Reader) ([]BedEntry, error) {
	var entries []BedEntry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 7)
		if len(fields) < 6 {
			return nil, fmt.Errorf("mutation: malformed BED line %q", line)
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("mutation: bad BED start %q: %w", fields[1], err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("mutation: bad BED end %q: %w", fields[2], err)
		}
		if len(fields[5]) == 0 {
			return nil, fmt.Errorf("mutation: empty BED strand field in %q", line)
		}
		entries = append(entries, BedEntry{
			Chrom:  fields[0],
			Start:  start,
			End:    end,
			Strand: fields[5][0],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// TestBlocks emits one Row per position in [start, end) of refID on strand,
// bypassing the depth/proportion filter entirely and always reporting the
// reference base as unknown ('?'). A position inside an unallocated block
// contributes an all-zero Row rather than being skipped.
func TestBlocks(g *cov.Grid5, refID int, start, end int, strand byte) []Row {
	refName := g.RefName(refID)
	if refLen := int(g.RefLen(refID)); end > refLen {
		end = refLen
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		return nil
	}
	blockSize := g.BlockSize()
	blockIndexStart := uint32(start) / blockSize
	blockIndexEnd := uint32(end-1)/blockSize + 1

	var rows []Row
	for blockIndex := blockIndexStart; blockIndex < blockIndexEnd; blockIndex++ {
		blockStartPos := blockIndex * blockSize
		blockEndPos := blockStartPos + blockSize
		rangeStart := uint32(start)
		if blockStartPos > rangeStart {
			rangeStart = blockStartPos
		}
		rangeEnd := uint32(end)
		if blockEndPos < rangeEnd {
			rangeEnd = blockEndPos
		}
		block := g.Block(refID, strand, blockIndex)
		for pos := rangeStart; pos < rangeEnd; pos++ {
			var counts cov.Counts5
			if block != nil {
				counts = block[pos-blockStartPos]
			}
			rows = append(rows, Row{RefName: refName, Pos: pos + 1, Strand: strand, RefBase: '?', Counts: counts})
		}
	}
	return rows
}
