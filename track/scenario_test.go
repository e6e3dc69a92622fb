package track

import (
	"context"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuar6/samvt/cigarwalk"
	"github.com/liuar6/samvt/cov"
)

// ingestRecord runs one record through the CIGAR walker into g, the same
// path the coverage driver takes.
func ingestRecord(g *cov.Grid, refID, pos int, ops []sam.CigarOp) {
	rec := &sam.Record{Pos: pos, Cigar: ops}
	cigarwalk.Walk(rec, func(run cigarwalk.RefRun) {
		if !run.Matched {
			return
		}
		g.Update(refID, uint32(run.Start), uint32(run.End))
	})
}

func compactAll(g *cov.Grid, refID int) []Interval {
	return Compact(g, refID, 0, g.BlockCount(refID))
}

func TestScenarioSingleMatchRecord(t *testing.T) {
	g := cov.Open([]string{"chrX"}, []uint32{10}, 4, 0)
	ingestRecord(g, 0, 2, []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 5)})

	assert.Equal(t, []Interval{{0, 2, 0}, {2, 7, 1}, {7, 10, 0}}, compactAll(g, 0))
}

func TestScenarioTwoOverlappingRecords(t *testing.T) {
	g := cov.Open([]string{"chrX"}, []uint32{10}, 4, 0)
	ops := []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 3)}
	ingestRecord(g, 0, 0, ops)
	ingestRecord(g, 0, 0, ops)

	assert.Equal(t, []Interval{{0, 3, 2}, {3, 10, 0}}, compactAll(g, 0))
}

func TestScenarioSkipSplitsCoverage(t *testing.T) {
	g := cov.Open([]string{"chrX"}, []uint32{10}, 4, 0)
	ingestRecord(g, 0, 0, []sam.CigarOp{
		sam.NewCigarOp(sam.CigarMatch, 2),
		sam.NewCigarOp(sam.CigarSkipped, 3),
		sam.NewCigarOp(sam.CigarMatch, 4),
	})

	assert.Equal(t, []Interval{{0, 2, 1}, {2, 5, 0}, {5, 9, 1}, {9, 10, 0}}, compactAll(g, 0))
}

func TestScenarioInsertionDoesNotSplitCoverage(t *testing.T) {
	g := cov.Open([]string{"chrX"}, []uint32{10}, 4, 0)
	ingestRecord(g, 0, 0, []sam.CigarOp{
		sam.NewCigarOp(sam.CigarMatch, 3),
		sam.NewCigarOp(sam.CigarInsertion, 2),
		sam.NewCigarOp(sam.CigarMatch, 3),
	})

	assert.Equal(t, []Interval{{0, 6, 1}, {6, 10, 0}}, compactAll(g, 0))
}

func TestScenarioReferencesEmitInOrder(t *testing.T) {
	g := cov.Open([]string{"chr1", "chr2"}, []uint32{8, 8}, 4, 0)
	ops := []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, 8)}
	ingestRecord(g, 0, 0, ops)
	ingestRecord(g, 1, 0, ops)

	sink := newFakeSink()
	require.NoError(t, WriteGrid(context.Background(), g, sink, 2))

	assert.Equal(t, []string{"chr1", "chr2"}, sink.adds)
	assert.Equal(t, []Interval{{0, 8, 1}}, sink.runs["chr1"])
	assert.Equal(t, []Interval{{0, 8, 1}}, sink.runs["chr2"])
}
