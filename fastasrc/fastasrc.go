// Package fastasrc extracts reference sequence by (name, start, end)
// through a FASTA file and its .fai index, used by the mutation caller to
// look up the reference base under a called position.
package fastasrc

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/fai"
	"github.com/grailbio/base/errors"
)

// Source extracts reference sequence by (name, start, end) using a .fai
// index: byte offsets are computed directly from the index record rather
// than scanned for.
type Source struct {
	f     *os.File
	index fai.Index
}

// Open opens the FASTA file at faPath together with its .fai index at
// faiPath (conventionally faPath+".fai").
func Open(faPath, faiPath string) (*Source, error) {
	f, err := os.Open(faPath)
	if err != nil {
		return nil, errors.E(err, "fasta open", faPath)
	}
	faiFile, err := os.Open(faiPath)
	if err != nil {
		f.Close()
		return nil, errors.E(err, "fai open", faiPath)
	}
	defer faiFile.Close()
	idx, err := fai.ReadFrom(faiFile)
	if err != nil {
		f.Close()
		return nil, errors.E(err, "fai parse", faiPath)
	}
	return &Source{f: f, index: idx}, nil
}

// Close releases the underlying FASTA file handle.
func (s *Source) Close() error { return s.f.Close() }

// Extract returns the reference bases in the half-open range [start, end)
// of the named sequence, reverse-complemented if strand is '-'. The range
// is clipped to the record's declared length.
func (s *Source) Extract(name string, start, end int, strand byte) ([]byte, error) {
	rec, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("fastasrc: unknown reference %q", name)
	}
	if end > rec.Length {
		end = rec.Length
	}
	if start < 0 || start >= end {
		return nil, nil
	}
	out := make([]byte, 0, end-start)
	r := bufio.NewReader(io.NewSectionReader(s.f, rec.Position(start), 1<<62))
	pos := start
	for pos < end {
		lineEnd := pos + (rec.BasesPerLine - pos%rec.BasesPerLine)
		if lineEnd > end {
			lineEnd = end
		}
		n := lineEnd - pos
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		out = append(out, buf...)
		pos = lineEnd
		if pos < end && pos%rec.BasesPerLine == 0 {
			if _, err := r.Discard(rec.BytesPerLine - rec.BasesPerLine); err != nil {
				return nil, err
			}
		}
	}
	if strand == '-' {
		ReverseComplement(out)
	}
	return out, nil
}
