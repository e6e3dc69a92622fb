// Package cigarwalk turns a biogo/hts sam.Record's CIGAR string into the
// reference-consuming runs that coverage and mutation accounting need, and
// carries the strand-selection and strand-derivation policies that decide,
// respectively, whether a record counts toward coverage at all and which
// strand character a mutation run should be filed under.
package cigarwalk

import "github.com/biogo/hts/sam"

// RefRun is the span of one CIGAR operation that consumes the reference
// (match/equal/mismatch or deletion/skip), given as a half-open
// [Start, End) reference range. ReadStart/ReadEnd index into the record's
// expanded read sequence and are only meaningful when the run also
// consumes the read (Matched is true); for a deletion/skip run they are
// equal and meaningless as a read range.
type RefRun struct {
	Start, End         int
	ReadStart, ReadEnd int
	Matched            bool // true for M/=/X (consumes both ref and read)
}

// Walk invokes visit once per reference-consuming operation in rec's
// CIGAR, in reference order; adjacent operations are not merged. Insertions and soft clips advance the read
// cursor only, deletions and skips advance the reference cursor only, and
// matches advance both.
func Walk(rec *sam.Record, visit func(RefRun)) {
	pos := rec.Pos
	readPos := 0
	for _, op := range rec.Cigar {
		n := op.Len()
		consume := op.Type().Consumes()
		switch {
		case consume.Query == 1 && consume.Reference == 1:
			visit(RefRun{Start: pos, End: pos + n, ReadStart: readPos, ReadEnd: readPos + n, Matched: true})
			pos += n
			readPos += n
		case consume.Query == 1 && consume.Reference == 0:
			readPos += n
		case consume.Query == 0 && consume.Reference == 1:
			visit(RefRun{Start: pos, End: pos + n, ReadStart: readPos, ReadEnd: readPos})
			pos += n
		}
		// Operations that consume neither (padding) leave both cursors alone.
	}
}
