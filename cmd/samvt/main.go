// Command samvt analyzes aligned sequencing reads, producing either a
// genome-wide coverage track or a per-position mutation (base-tally)
// report. It is the Go reimplementation of the `samvt coverage`/
// `samvt mutation` tool.
package main

import (
	"fmt"
	"os"

	"github.com/grailbio/base/log"
)

func usage() {
	fmt.Fprint(os.Stderr, `samvt: tools for analyzing aligned sequencing reads.

Usage:    samvt <subcommand> [options]

Subcommands:
    coverage    emit a genome-wide depth track
    mutation    emit a per-position base-tally report

Run 'samvt <subcommand> -h' for subcommand-specific options.
`)
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "coverage":
		err = runCoverage(os.Args[2:])
	case "mutation":
		err = runMutation(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "samvt: unrecognized subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Error.Printf("%v", err)
		os.Exit(1)
	}
}
