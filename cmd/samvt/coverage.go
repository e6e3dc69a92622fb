package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/biogo/hts/sam"

	"github.com/liuar6/samvt/bamsrc"
	"github.com/liuar6/samvt/cigarwalk"
	"github.com/liuar6/samvt/cov"
	"github.com/liuar6/samvt/pipeline"
	"github.com/liuar6/samvt/track"
)

// coverageIngestBatch is the number of records per ingest job.
const coverageIngestBatch = 10000

func runCoverage(args []string) error {
	fs := flag.NewFlagSet("coverage", flag.ExitOnError)
	bamPath := fs.String("bam", "-", "input alignment file ('-' for stdin)")
	fs.StringVar(bamPath, "i", "-", "alias of --bam")
	bwPath := fs.String("bw", "-", "output track file ('-' for stdout)")
	fs.StringVar(bwPath, "o", "-", "alias of --bw")
	libTypeFlag := fs.String("library-type", "fr-firststrand", "fr-firststrand or fr-secondstrand")
	fs.StringVar(libTypeFlag, "t", "fr-firststrand", "alias of --library-type")
	strandFlag := fs.String("strand", "all", "forward, reverse, or all")
	fs.StringVar(strandFlag, "s", "all", "alias of --strand")
	binSize := fs.Int("bin-size", 1, "bin size for coverage calculation (only 1 is supported)")
	fs.IntVar(binSize, "B", 1, "alias of --bin-size")
	threads := fs.Int("threads", 0, "worker goroutines for ingest/emission (0 = single-threaded)")
	fs.IntVar(threads, "p", 0, "alias of --threads")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Rebinning above 1 is not implemented; reject the flag rather than
	// silently ignore it.
	if *binSize != 1 {
		return fmt.Errorf("coverage: --bin-size %d is not supported; only 1 is implemented", *binSize)
	}
	lib, ok := cigarwalk.ParseLibraryType(*libTypeFlag)
	if !ok {
		return fmt.Errorf("coverage: unknown --library-type %q", *libTypeFlag)
	}
	strand, ok := cigarwalk.ParseStrand(*strandFlag)
	if !ok {
		return fmt.Errorf("coverage: unknown --strand %q", *strandFlag)
	}
	selectMode := cigarwalk.CoverageSelect(lib, strand)

	in, closeIn, err := openInput(*bamPath)
	if err != nil {
		return fmt.Errorf("coverage: open input: %w", err)
	}
	defer closeIn()

	src, err := bamsrc.Open(in, 1)
	if err != nil {
		return fmt.Errorf("coverage: open bam: %w", err)
	}
	defer src.Close()

	refs := src.Header().Refs()
	names := make([]string, len(refs))
	lengths := make([]uint32, len(refs))
	for i, r := range refs {
		names[i] = r.Name()
		lengths[i] = uint32(r.Len())
	}
	grid := cov.Open(names, lengths, cov.DefaultBlockShift, cov.DefaultMutexShift)

	ingestOne := func(rec *sam.Record) {
		if rec.Ref == nil {
			return // unmapped
		}
		if !cigarwalk.Included(rec, selectMode) {
			return
		}
		cigarwalk.Walk(rec, func(run cigarwalk.RefRun) {
			if !run.Matched {
				return
			}
			grid.Update(rec.Ref.ID(), uint32(run.Start), uint32(run.End))
		})
	}

	if *threads < 1 {
		for {
			rec, rerr := src.Next()
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				return fmt.Errorf("coverage: read record: %w", rerr)
			}
			ingestOne(rec)
		}
	} else {
		ctx := context.Background()
		dispatcher := pipeline.NewDispatcher(ctx, *threads, (*threads)*8)
		batch := make([]*sam.Record, 0, coverageIngestBatch)
		submit := func(b []*sam.Record) {
			dispatcher.Submit(func(context.Context) error {
				for _, rec := range b {
					ingestOne(rec)
				}
				return nil
			})
		}
		for {
			rec, rerr := src.Next()
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				return fmt.Errorf("coverage: read record: %w", rerr)
			}
			batch = append(batch, rec)
			if len(batch) == coverageIngestBatch {
				submit(batch)
				batch = make([]*sam.Record, 0, coverageIngestBatch)
			}
		}
		if len(batch) > 0 {
			submit(batch)
		}
		if err := dispatcher.Wait(); err != nil {
			return fmt.Errorf("coverage: ingest: %w", err)
		}
	}

	out, closeOut, err := openOutput(*bwPath)
	if err != nil {
		return fmt.Errorf("coverage: open output: %w", err)
	}
	defer closeOut()

	sink := track.NewRecordWriter(out)
	parallelism := *threads
	if parallelism < 1 {
		parallelism = 1
	}
	// WriteGrid closes the sink itself once the final reference has been
	// stitched and flushed.
	if err := track.WriteGrid(context.Background(), grid, sink, parallelism); err != nil {
		return fmt.Errorf("coverage: emit track: %w", err)
	}
	return nil
}
