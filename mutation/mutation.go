package mutation

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"

	"github.com/liuar6/samvt/bamsrc"
	"github.com/liuar6/samvt/cigarwalk"
	"github.com/liuar6/samvt/cov"
	"github.com/liuar6/samvt/fastasrc"
)

// Default threshold values for the mutation caller.
const (
	DefaultCountThreshold = 50
	DefaultPropThreshold  = 0.15
)

// Opts configures one mutation run.
type Opts struct {
	BamPath        string
	OutPath        string
	FaPath         string
	FaiPath        string // defaults to FaPath+".fai" when FaPath is set
	BedPath        string
	LibraryType    cigarwalk.LibraryType
	CountThreshold float64
	PropThreshold  float64
	Threads        int
	Bgzip          bool
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// maybeGunzip wraps r in a gzip.Reader when path ends in ".gz", leaving it
// untouched otherwise. The BED mask is read once, front to back, so gzip
// framing is transparent here in a way it cannot be for fastasrc's
// fai-indexed random-access FASTA reads.
func maybeGunzip(r io.Reader, path string) (io.Reader, error) {
	if !strings.HasSuffix(path, ".gz") {
		return r, nil
	}
	return gzip.NewReader(r)
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// Run ingests opts.BamPath into a five-channel counter grid and writes the
// called (or BED-masked) mutation rows to opts.OutPath. Ingest always runs
// single-threaded; opts.Threads parallelizes only the extraction phase,
// where the grid is read-only.
func Run(ctx context.Context, opts Opts) (err error) {
	in, closeIn, err := openInput(opts.BamPath)
	if err != nil {
		return fmt.Errorf("mutation: open input: %w", err)
	}
	defer closeIn()

	src, err := bamsrc.Open(in, 1)
	if err != nil {
		return fmt.Errorf("mutation: open bam: %w", err)
	}
	defer src.Close()

	refs := src.Header().Refs()
	names := make([]string, len(refs))
	lengths := make([]uint32, len(refs))
	for i, r := range refs {
		names[i] = r.Name()
		lengths[i] = uint32(r.Len())
	}

	grid := cov.OpenGrid5(names, lengths, cov.DefaultBlockShift, cov.DefaultMutexShift)

	var nRecs int
	for {
		rec, rerr := src.Next()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("mutation: read record %d: %w", nRecs, rerr)
		}
		nRecs++
		if rec.Ref == nil {
			continue // unmapped
		}
		strand := cigarwalk.MutationStrand(rec, opts.LibraryType)
		seq := rec.Seq.Expand()
		cigarwalk.Walk(rec, func(run cigarwalk.RefRun) {
			if !run.Matched {
				return
			}
			channels := cigarwalk.Channels(seq[run.ReadStart:run.ReadEnd])
			grid.Update(rec.Ref.ID(), uint32(run.Start), uint32(run.End), strand, channels)
		})
	}
	log.Debug.Printf("mutation: ingested %d records", nRecs)

	var ref *fastasrc.Source
	if opts.FaPath != "" {
		faiPath := opts.FaiPath
		if faiPath == "" {
			faiPath = opts.FaPath + ".fai"
		}
		if ref, err = fastasrc.Open(opts.FaPath, faiPath); err != nil {
			return fmt.Errorf("mutation: open reference: %w", err)
		}
		defer ref.Close()
	}

	out, closeOut, err := openOutput(opts.OutPath)
	if err != nil {
		return fmt.Errorf("mutation: open output: %w", err)
	}
	defer closeOut()

	var dst io.Writer = out
	if opts.Bgzip {
		bgzw := bgzf.NewWriter(out, 1)
		defer func() {
			if cerr := bgzw.Close(); err == nil {
				err = cerr
			}
		}()
		dst = bgzw
	}
	rowWriter := NewRowWriter(dst)

	if opts.BedPath != "" {
		err = runBedMask(grid, opts.BedPath, rowWriter)
	} else {
		var lookup ReferenceLookup
		if ref != nil {
			lookup = ref
		}
		threads := opts.Threads
		if threads < 1 {
			threads = 1
		}
		err = ExtractAll(ctx, grid, lookup, rowWriter, opts.CountThreshold, opts.PropThreshold, threads)
	}
	if err != nil {
		return err
	}
	return rowWriter.Flush()
}

func runBedMask(grid *cov.Grid5, bedPath string, w *RowWriter) error {
	bedFile, err := os.Open(bedPath)
	if err != nil {
		return fmt.Errorf("mutation: open bed: %w", err)
	}
	defer bedFile.Close()

	bedReader, err := maybeGunzip(bedFile, bedPath)
	if err != nil {
		return fmt.Errorf("mutation: open bed: %w", err)
	}
	entries, err := ReadBED(bedReader)
	if err != nil {
		return err
	}
	refIndex := make(map[string]int, grid.NumRefs())
	for i := 0; i < grid.NumRefs(); i++ {
		refIndex[grid.RefName(i)] = i
	}
	for _, e := range entries {
		refID, ok := refIndex[e.Chrom]
		if !ok {
			continue
		}
		for _, row := range TestBlocks(grid, refID, e.Start, e.End, e.Strand) {
			if err := w.WriteRow(row); err != nil {
				return err
			}
		}
	}
	return nil
}
