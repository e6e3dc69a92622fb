package mutation

import (
	"context"

	"github.com/liuar6/samvt/cov"
	"github.com/liuar6/samvt/pipeline"
)

// windowBlocks sizes a call window to roughly 128Ki positions worth of
// live block memory.
func windowBlocks(blockSize uint32) uint32 {
	return (1<<17)/blockSize + 1
}

type callWindow struct {
	refID      int
	strand     byte
	start, end uint32
}

// planCallWindows enumerates (reference, strand, window) jobs in the order
// the writer must observe them: reference ascending, '+' strand before '-'
// on a given reference, window start ascending within a strand. Grouping by
// reference keeps a reference's two strands' output adjacent in the report;
// nothing in the threshold filter depends on cross-reference ordering.
func planCallWindows(g *cov.Grid5) []callWindow {
	var windows []callWindow
	needed := windowBlocks(g.BlockSize())
	for refID := 0; refID < g.NumRefs(); refID++ {
		for _, strand := range [2]byte{'+', '-'} {
			blockCount := g.BlockCount(refID)
			var blockIndexEnd uint32
			for blockIndexEnd < blockCount {
				blockIndexStart := blockIndexEnd
				var nBlock uint32
				for blockIndexEnd < blockCount {
					if g.Block(refID, strand, blockIndexEnd) == nil {
						blockIndexEnd++
						continue
					}
					if nBlock == needed {
						break
					}
					blockIndexEnd++
					nBlock++
				}
				windows = append(windows, callWindow{refID: refID, strand: strand, start: blockIndexStart, end: blockIndexEnd})
			}
		}
	}
	return windows
}

// ExtractAll scans every allocated block of g under the threshold filter,
// using parallelism worker goroutines for the CallBlocks scan itself while
// preserving planCallWindows' dispatch order when writing rows to w. The
// grid is read-only by this point, so the scan parallelizes freely across
// windows.
func ExtractAll(ctx context.Context, g *cov.Grid5, ref ReferenceLookup, w *RowWriter, countThreshold, propThreshold float64, parallelism int) error {
	if parallelism < 1 {
		parallelism = 1
	}
	windows := planCallWindows(g)
	ordered := pipeline.NewOrderedSink(parallelism * 4)
	dispatcher := pipeline.NewDispatcher(ctx, parallelism, parallelism*4)

	// Start draining before the first job can insert, so a full ordered
	// queue can't wedge the workers against a full job backlog.
	drainErrCh := make(chan error, 1)
	go func() {
		err := ordered.Drain(func(v interface{}) error {
			for _, row := range v.([]Row) {
				if err := w.WriteRow(row); err != nil {
					return err
				}
			}
			return nil
		})
		drainErrCh <- err
	}()

	for seq, cw := range windows {
		seq, cw := seq, cw
		dispatcher.Submit(func(ctx context.Context) error {
			rows, err := CallBlocks(g, ref, cw.refID, cw.strand, cw.start, cw.end, countThreshold, propThreshold)
			if err != nil {
				return err
			}
			return ordered.Insert(seq, rows)
		})
	}

	dispatchErr := dispatcher.Wait()
	ordered.Close(dispatchErr)
	drainErr := <-drainErrCh

	if dispatchErr != nil {
		return dispatchErr
	}
	return drainErr
}
