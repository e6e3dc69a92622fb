// Package bamsrc adapts github.com/biogo/hts/bam into a plain sequential
// record source over a BAM stream. It intentionally does not shard or
// index its input; records are delivered strictly in file order.
package bamsrc

import (
	"io"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// Source sequentially reads sam.Record values from an underlying BAM
// stream.
type Source struct {
	reader *bam.Reader
	closer io.Closer
}

// Open wraps r (a raw or already-bgzf-framed BAM byte stream) in a
// bam.Reader. rd is the number of decompression goroutines bam.Reader is
// allowed to use internally, matching bam.NewReader's own parameter.
func Open(r io.Reader, rd int) (*Source, error) {
	br, err := bam.NewReader(r, rd)
	if err != nil {
		return nil, err
	}
	s := &Source{reader: br}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s, nil
}

// Header returns the BAM header, giving access to the reference list
// (name + length) that the grids and track sink are opened with.
func (s *Source) Header() *sam.Header { return s.reader.Header() }

// Next returns the next record, or io.EOF once the stream is exhausted.
func (s *Source) Next() (*sam.Record, error) {
	return s.reader.Read()
}

// Close releases the underlying stream, if it was itself closeable.
func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
