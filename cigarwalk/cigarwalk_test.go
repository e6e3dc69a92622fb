package cigarwalk

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
)

func rec(pos int, cigar []sam.CigarOp) *sam.Record {
	return &sam.Record{Pos: pos, Cigar: cigar}
}

func TestWalkSimpleMatch(t *testing.T) {
	r := rec(10, []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 5)})

	var runs []RefRun
	Walk(r, func(run RefRun) { runs = append(runs, run) })

	assert.Equal(t, []RefRun{{Start: 10, End: 15, ReadStart: 0, ReadEnd: 5, Matched: true}}, runs)
}

func TestWalkSoftClipDoesNotAdvanceReference(t *testing.T) {
	r := rec(10, []sam.CigarOp{
		sam.NewCigarOp(sam.CigarSoftClipped, 2),
		sam.NewCigarOp(sam.CigarMatch, 5),
		sam.NewCigarOp(sam.CigarSoftClipped, 3),
	})

	var runs []RefRun
	Walk(r, func(run RefRun) { runs = append(runs, run) })

	assert.Equal(t, []RefRun{{Start: 10, End: 15, ReadStart: 2, ReadEnd: 7, Matched: true}}, runs)
}

func TestWalkDeletionDoesNotConsumeRead(t *testing.T) {
	r := rec(0, []sam.CigarOp{
		sam.NewCigarOp(sam.CigarMatch, 3),
		sam.NewCigarOp(sam.CigarDeletion, 2),
		sam.NewCigarOp(sam.CigarMatch, 4),
	})

	var runs []RefRun
	Walk(r, func(run RefRun) { runs = append(runs, run) })

	assert.Equal(t, []RefRun{
		{Start: 0, End: 3, ReadStart: 0, ReadEnd: 3, Matched: true},
		{Start: 3, End: 5, ReadStart: 3, ReadEnd: 3, Matched: false},
		{Start: 5, End: 9, ReadStart: 3, ReadEnd: 7, Matched: true},
	}, runs)
}

func TestWalkInsertionAdvancesReadOnly(t *testing.T) {
	r := rec(0, []sam.CigarOp{
		sam.NewCigarOp(sam.CigarMatch, 3),
		sam.NewCigarOp(sam.CigarInsertion, 2),
		sam.NewCigarOp(sam.CigarMatch, 4),
	})

	var matched []RefRun
	Walk(r, func(run RefRun) {
		if run.Matched {
			matched = append(matched, run)
		}
	})

	assert.Equal(t, []RefRun{
		{Start: 0, End: 3, ReadStart: 0, ReadEnd: 3, Matched: true},
		{Start: 3, End: 7, ReadStart: 5, ReadEnd: 9, Matched: true},
	}, matched)
}

func TestWalkSkipRegionIsUnmatched(t *testing.T) {
	r := rec(100, []sam.CigarOp{
		sam.NewCigarOp(sam.CigarMatch, 10),
		sam.NewCigarOp(sam.CigarSkipped, 500),
		sam.NewCigarOp(sam.CigarMatch, 10),
	})

	var skipRuns []RefRun
	Walk(r, func(run RefRun) {
		if !run.Matched {
			skipRuns = append(skipRuns, run)
		}
	})

	assert.Equal(t, []RefRun{{Start: 110, End: 610, ReadStart: 10, ReadEnd: 10, Matched: false}}, skipRuns)
}
