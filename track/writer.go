package track

import (
	"context"

	"github.com/liuar6/samvt/cov"
	"github.com/liuar6/samvt/pipeline"
)

// windowBlocks is the number of blocks a single compaction job covers,
// chosen so a window holds roughly 128Ki positions worth of allocated
// blocks before being handed to a worker.
func windowBlocks(blockSize uint32) uint32 {
	return (1<<17)/blockSize + 1
}

type window struct {
	refID      int
	start, end uint32
	lastOfRef  bool
}

// planWindows splits every reference's allocated blocks into compaction
// windows, skipping runs of unallocated blocks without materializing them;
// a window is closed once it has packed windowBlocks non-nil blocks.
func planWindows(g *cov.Grid) []window {
	var windows []window
	needed := windowBlocks(g.BlockSize())
	for refID := 0; refID < g.NumRefs(); refID++ {
		blockCount := g.BlockCount(refID)
		var blockIndexEnd uint32
		for blockIndexEnd < blockCount {
			blockIndexStart := blockIndexEnd
			var nBlock uint32
			for blockIndexEnd < blockCount {
				if g.Block(refID, blockIndexEnd) == nil {
					blockIndexEnd++
					continue
				}
				if nBlock == needed {
					break
				}
				blockIndexEnd++
				nBlock++
			}
			windows = append(windows, window{
				refID:     refID,
				start:     blockIndexStart,
				end:       blockIndexEnd,
				lastOfRef: blockIndexEnd == blockCount,
			})
		}
		if blockCount == 0 {
			windows = append(windows, window{refID: refID, start: 0, end: 0, lastOfRef: true})
		}
	}
	return windows
}

type windowResult struct {
	w    window
	runs []Interval
}

// WriteGrid compacts every reference of g into runs and writes them to sink
// in reference order, using parallelism worker goroutines for the
// compaction itself while preserving strict dispatch-order delivery to
// sink. The sink is closed once the final reference has been flushed;
// callers must not close it again.
func WriteGrid(ctx context.Context, g *cov.Grid, sink IntervalSink, parallelism int) error {
	names := make([]string, g.NumRefs())
	lengths := make([]uint32, g.NumRefs())
	for i := 0; i < g.NumRefs(); i++ {
		names[i] = g.RefName(i)
		lengths[i] = g.RefLen(i)
	}
	if err := sink.AddChromList(names, lengths); err != nil {
		return err
	}

	windows := planWindows(g)
	ordered := pipeline.NewOrderedSink(parallelism * 4)
	dispatcher := pipeline.NewDispatcher(ctx, parallelism, parallelism*4)

	// The writer must be draining before any job can insert, or a full
	// ordered queue would wedge the workers against a full job backlog.
	drainErrCh := make(chan error, 1)
	go func() {
		stitcher := NewStitcher(sink)
		curRef := -1
		err := ordered.Drain(func(v interface{}) error {
			res := v.(windowResult)
			if res.w.refID != curRef {
				curRef = res.w.refID
				if err := stitcher.StartRef(names[curRef]); err != nil {
					return err
				}
			}
			return stitcher.Feed(res.runs, res.w.lastOfRef)
		})
		if err == nil {
			err = stitcher.Close()
		}
		drainErrCh <- err
	}()

	for seq, w := range windows {
		seq, w := seq, w
		dispatcher.Submit(func(ctx context.Context) error {
			runs := Compact(g, w.refID, w.start, w.end)
			return ordered.Insert(seq, windowResult{w: w, runs: runs})
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
