package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/liuar6/samvt/cigarwalk"
	"github.com/liuar6/samvt/mutation"
)

func runMutation(args []string) error {
	fs := flag.NewFlagSet("mutation", flag.ExitOnError)
	bamPath := fs.String("bam", "-", "input alignment file ('-' for stdin)")
	fs.StringVar(bamPath, "i", "-", "alias of --bam")
	outPath := fs.String("out", "-", "output report file ('-' for stdout)")
	fs.StringVar(outPath, "o", "-", "alias of --out")
	faPath := fs.String("fa", "", "reference FASTA (optional; modal base used when omitted)")
	fs.StringVar(faPath, "a", "", "alias of --fa")
	faiPath := fs.String("fai", "", "reference FASTA index (defaults to <fa>.fai)")
	bedPath := fs.String("bed", "", "BED file of positions to report unconditionally, bypassing thresholds")
	fs.StringVar(bedPath, "b", "", "alias of --bed")
	libTypeFlag := fs.String("library-type", "fr-unstranded", "fr-unstranded, fr-firststrand, or fr-secondstrand")
	fs.StringVar(libTypeFlag, "t", "fr-unstranded", "alias of --library-type")
	count := fs.Float64("count", mutation.DefaultCountThreshold, "minimum total depth for a position to be called")
	fs.Float64Var(count, "c", mutation.DefaultCountThreshold, "alias of --count")
	prop := fs.Float64("prop", mutation.DefaultPropThreshold, "minimum mismatch proportion for a position to be called")
	fs.Float64Var(prop, "e", mutation.DefaultPropThreshold, "alias of --prop")
	threads := fs.Int("threads", 0, "worker goroutines for the extraction phase (0 = single-threaded)")
	fs.IntVar(threads, "p", 0, "alias of --threads")
	bgzip := fs.Bool("bgzip", false, "bgzip-compress the output report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lib, ok := cigarwalk.ParseLibraryType(*libTypeFlag)
	if !ok {
		return fmt.Errorf("mutation: unknown --library-type %q", *libTypeFlag)
	}

	opts := mutation.Opts{
		BamPath:        *bamPath,
		OutPath:        *outPath,
		FaPath:         *faPath,
		FaiPath:        *faiPath,
		BedPath:        *bedPath,
		LibraryType:    lib,
		CountThreshold: *count,
		PropThreshold:  *prop,
		Threads:        *threads,
		Bgzip:          *bgzip,
	}
	return mutation.Run(context.Background(), opts)
}
