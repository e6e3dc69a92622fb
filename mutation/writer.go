package mutation

import (
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
)

// RowWriter formats mutation Rows as tab-separated text, one row per
// line.
type RowWriter struct {
	w *tsv.Writer
}

// NewRowWriter wraps w in a tsv.Writer.
func NewRowWriter(w io.Writer) *RowWriter {
	return &RowWriter{w: tsv.NewWriter(w)}
}

// WriteRow appends one row: ref_name, 1-based pos, strand, ref base (or
// '?'), then the A/C/G/T/N tallies formatted with six decimal places.
func (rw *RowWriter) WriteRow(r Row) error {
	rw.w.WriteString(r.RefName)
	rw.w.WriteUint32(r.Pos)
	rw.w.WriteByte(r.Strand)
	rw.w.WriteByte(r.RefBase)
	for _, c := range r.Counts {
		rw.w.WriteString(strconv.FormatFloat(c, 'f', 6, 64))
	}
	return rw.w.EndLine()
}

// Flush flushes any buffered output to the underlying writer.
func (rw *RowWriter) Flush() error { return rw.w.Flush() }
